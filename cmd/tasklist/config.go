package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/spf13/viper"
)

var defaultConfigPath = filepath.Join(config.Dir, "config.yaml")

func resolveConfigPath(repoRoot, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoRoot, path)
	}
	return path
}

// loadConfig reads the config file if it exists, applies TASKLIST_* env
// overrides and validates the result. A missing file yields the defaults.
func loadConfig(repoRoot string) (config.Config, error) {
	def := config.Default()
	viper.SetDefault("storage.backend", def.Storage.Backend)
	viper.SetDefault("storage.key", def.Storage.Key)
	viper.SetDefault("storage.path", "")
	viper.SetDefault("web.addr", def.Web.Addr)
	viper.SetEnvPrefix("TASKLIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := resolveConfigPath(repoRoot, viper.GetString("config"))
	if _, err := os.Stat(path); err == nil {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if viper.IsSet("config") && viper.GetString("config") != defaultConfigPath {
		return config.Config{}, fmt.Errorf("config file %s not found", path)
	}

	settings := map[string]any{
		"storage": map[string]any{
			"backend": viper.GetString("storage.backend"),
			"path":    viper.GetString("storage.path"),
			"key":     viper.GetString("storage.key"),
		},
		"web": map[string]any{
			"addr": viper.GetString("web.addr"),
		},
	}
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.Resolve(repoRoot), nil
}

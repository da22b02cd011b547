package main

import (
	"testing"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/spf13/viper"
)

func TestDefaultConfigYAML_IsLoadable(t *testing.T) {
	repoRoot := t.TempDir()
	path, created, err := writeDefaultConfig(repoRoot)
	if err != nil {
		t.Fatalf("write default config: %v", err)
	}
	if !created {
		t.Fatalf("expected %s to be created", path)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", defaultConfigPath)

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Fatalf("storage.backend = %q, want %q", cfg.Storage.Backend, config.BackendSQLite)
	}

	if _, created, err := writeDefaultConfig(repoRoot); err != nil || created {
		t.Fatalf("second init: created=%v err=%v, want existing config kept", created, err)
	}
}

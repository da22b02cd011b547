// Package config provides configuration loading and management for tasklist.
package config

import "path/filepath"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Dir is the per-project directory holding config and data.
const Dir = ".tasklist"

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `json:"storage" mapstructure:"storage" yaml:"storage"`
	Web     WebConfig     `json:"web"     mapstructure:"web"     yaml:"web"`
}

// StorageConfig selects where the task list is kept.
type StorageConfig struct {
	Backend string `json:"backend"        mapstructure:"backend" yaml:"backend"`
	Path    string `json:"path,omitempty" mapstructure:"path"    yaml:"path,omitempty"`
	Key     string `json:"key"            mapstructure:"key"     yaml:"key"`
}

// WebConfig configures the web UI.
type WebConfig struct {
	Addr string `json:"addr" mapstructure:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(Dir, "tasklist.db"),
			Key:     "tasks",
		},
		Web: WebConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the default storage path for backend.
func DefaultPath(backend string) string {
	switch backend {
	case BackendFile:
		return filepath.Join(Dir, "tasks.json")
	case BackendSQLite:
		return filepath.Join(Dir, "tasklist.db")
	default:
		return ""
	}
}

// Resolve makes relative storage paths absolute against root and fills the
// path for the selected backend when it is missing.
func (c Config) Resolve(root string) Config {
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultPath(c.Storage.Backend)
	}
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(root, c.Storage.Path)
	}
	return c
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/metalagman/tasklist/internal/db"
	"github.com/metalagman/tasklist/internal/session"
	"github.com/metalagman/tasklist/internal/storage"
	"github.com/rs/zerolog/log"
)

// openPersistence opens the configured backend. The returned func releases it.
func openPersistence(ctx context.Context, cfg config.Config) (storage.Persistence, func(), error) {
	var kv storage.KV
	closeFn := func() {}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("create data dir: %w", err)
		}
		storeDB, err := db.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, closeFn, err
		}
		kv = db.NewKV(storeDB)
		closeFn = func() { _ = storeDB.Close() }
	case config.BackendFile:
		fileKV, err := storage.NewFileKV(cfg.Storage.Path)
		if err != nil {
			return nil, closeFn, err
		}
		kv = fileKV
	case config.BackendMemory:
		kv = storage.NewMemoryKV()
	default:
		return nil, closeFn, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Str("key", cfg.Storage.Key).Msg("storage opened")
	return storage.NewAdapter(kv, cfg.Storage.Key), closeFn, nil
}

// openSession loads config from the working directory and hydrates a session.
func openSession(ctx context.Context) (*session.Session, config.Config, func(), error) {
	repoRoot, err := os.Getwd()
	if err != nil {
		return nil, config.Config{}, func() {}, err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return nil, config.Config{}, func() {}, err
	}
	store, closeFn, err := openPersistence(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, func() {}, err
	}
	return session.New(ctx, store), cfg, closeFn, nil
}

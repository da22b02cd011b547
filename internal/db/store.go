package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/metalagman/tasklist/internal/storage"
)

// KV is a storage.KV backed by the kv table.
type KV struct {
	db *sql.DB
}

// NewKV creates a key-value store on an opened database.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// DB returns the underlying database handle.
func (s *KV) DB() *sql.DB {
	return s.db
}

// Get returns the value for key, or storage.ErrNotFound.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("read kv %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *KV) Set(ctx context.Context, key, value string) error {
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, updatedAt); err != nil {
		return fmt.Errorf("write kv %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key); err != nil {
		return fmt.Errorf("delete kv %q: %w", key, err)
	}
	return nil
}

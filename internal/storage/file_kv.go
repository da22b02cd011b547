package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileKV keeps every key in a single JSON object file. A flock on
// path+".lock" makes each read-modify-write of the file atomic across
// processes. It does not merge sessions: the last Save of the task list wins.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a store backed by path. The file is created on first write.
func NewFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileKV{path: path}, nil
}

// Get returns the value for key.
func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	unlock, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = value
	return f.write(data)
}

// Delete removes key.
func (f *FileKV) Delete(_ context.Context, key string) error {
	unlock, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock()
	data, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.write(data)
}

func (f *FileKV) lock() (func(), error) {
	f.mu.Lock()
	l, err := lockFile(f.path + ".lock")
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	return func() {
		if err := l.release(); err != nil {
			log.Warn().Err(err).Str("path", f.path).Msg("release store lock")
		}
		f.mu.Unlock()
	}, nil
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return data, nil
}

func (f *FileKV) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/metalagman/tasklist/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestServeOptions_WiresServer(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Storage: config.StorageConfig{Backend: config.BackendMemory, Key: "tasks"},
		Web:     config.WebConfig{Addr: "127.0.0.1:0"},
	}
	var srv *web.Server
	app := fxtest.New(t, serveOptions(cfg), fx.Populate(&srv))
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, srv)
	h := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/actions", strings.NewReader(`{"type":"changeDraftTitle","text":"Buy milk"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/actions", strings.NewReader(`{"type":"addTask"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Buy milk"`)
}

func TestOpenPersistence_Backends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, cfg := range []config.Config{
		{Storage: config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "data", "tasklist.db"), Key: "tasks"}},
		{Storage: config.StorageConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "tasks.json"), Key: "tasks"}},
		{Storage: config.StorageConfig{Backend: config.BackendMemory, Key: "tasks"}},
	} {
		t.Run(cfg.Storage.Backend, func(t *testing.T) {
			ctx := context.Background()
			store, closeFn, err := openPersistence(ctx, cfg)
			require.NoError(t, err)
			defer closeFn()

			assert.Empty(t, store.Load(ctx))
		})
	}

	_, closeFn, err := openPersistence(context.Background(), config.Config{Storage: config.StorageConfig{Backend: "cloud"}})
	closeFn()
	assert.Error(t, err)
}

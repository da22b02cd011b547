package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter_Levels(t *testing.T) {
	var buf bytes.Buffer

	InitWriter(false, &buf)
	t.Cleanup(func() { InitWriter(false, &bytes.Buffer{}) })
	assert.False(t, DebugEnabled())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Debug().Msg("hidden")
	log.Info().Str("key", "tasks").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"key":"tasks"`)

	buf.Reset()
	InitWriter(true, &buf)
	assert.True(t, DebugEnabled())
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestInitFile_Appends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".tasklist")
	t.Cleanup(func() { InitWriter(false, &bytes.Buffer{}) })

	for _, msg := range []string{"first", "second"} {
		closer, err := InitFile(false, dir)
		require.NoError(t, err)
		log.Info().Msg(msg)
		require.NoError(t, closer.Close())
	}

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message":"first"`)
	assert.Contains(t, string(raw), `"message":"second"`)
}

// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FileName is the log file used while the terminal UI owns the screen.
const FileName = "tasklist.log"

var debugEnabled bool

// Init sends human readable logs to stderr.
func Init(debug bool) {
	setLevel(debug)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// InitWriter sends JSON lines to out.
func InitWriter(debug bool, out io.Writer) {
	setLevel(debug)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// InitFile appends JSON lines to dir/FileName, creating dir if needed. The
// caller closes the returned file.
func InitFile(debug bool, dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	InitWriter(debug, f)
	return f, nil
}

func setLevel(debug bool) {
	debugEnabled = debug
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// DebugEnabled reports whether debug logging is enabled.
func DebugEnabled() bool {
	return debugEnabled
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"snowflake-admin/internal/config"
)

// New builds the process logger. Format "console" writes human-readable lines,
// anything else JSON. An unknown level falls back to info.
func New(cfg config.LoggingConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "snowflake-admin").
		Logger()
}

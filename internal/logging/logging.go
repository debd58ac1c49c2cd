// Package logging builds the zerolog logger shared by the CLI and the mock backend.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing to w. DEV gets a human readable console writer,
// every other environment gets JSON lines.
func New(cfg config.EnvConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.GetEnv() == "DEV" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Install sets the global logger used by packages that log through
// github.com/rs/zerolog/log and returns it.
func Install(cfg config.EnvConfig, w io.Writer) zerolog.Logger {
	logger := New(cfg, w)
	log.Logger = logger
	return logger
}

// Package logger builds the zerolog logger shared by every command.
//
// Development (dev): human-readable console output at DEBUG level.
// Staging (staging): JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/config"
)

// New returns a logger configured for the given environment, writing to w.
func New(env string, w io.Writer) zerolog.Logger {
	switch env {
	case config.EnvProd:
		return zerolog.New(w).
			Level(zerolog.InfoLevel).
			With().Timestamp().Logger()
	case config.EnvStaging:
		return zerolog.New(w).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	default: // "dev" and anything unrecognised
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
}

package orm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// Logger routes gorm's log output into zerolog. SQL traces are logged at
// debug level, slow statements at warn, failures at error.
type Logger struct {
	log   zerolog.Logger
	level logger.LogLevel
}

var _ logger.Interface = (*Logger)(nil)

// NewLogger returns a gorm logger writing to log.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "gorm").Logger(), level: logger.Info}
}

// LogMode returns a copy of the logger at level.
func (l *Logger) LogMode(level logger.LogLevel) logger.Interface {
	n := *l
	n.level = level
	return &n
}

// Info logs msg at info level.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

// Warn logs msg at warn level.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

// Error logs msg at error level.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

// Trace logs one executed statement with its duration and row count.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	var e *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		e = l.log.Error().Err(err)
	case elapsed > slowQuery && l.level >= logger.Warn:
		e = l.log.Warn().Bool("slow", true)
	case l.level >= logger.Info:
		e = l.log.Debug()
	default:
		return
	}

	e.Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query")
}

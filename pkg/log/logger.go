// Package log provides a structured logging interface for mlnotes backed
// by rs/zerolog.
//
// The interface is deliberately small and slog-shaped: leveled methods that
// take a message plus alternating key/value fields, and With for building
// contextual loggers. Keeping the interface here lets tests swap in a
// capturing logger without touching zerolog directly.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// Common field keys used across the library.
const (
	ModelKey     = "model"
	OperationKey = "operation"
	SamplesKey   = "n_samples"
	FeaturesKey  = "n_features"
	IterationKey = "iteration"
	DurationKey  = "duration_ms"
)

// Logger is a minimal structured logger. Fields are alternating key/value
// pairs; keys must be strings.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a child logger that includes the given fields on
	// every event.
	With(fields ...any) Logger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewLogger(os.Stderr, zerolog.InfoLevel)
)

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// NewLogger builds a zerolog-backed Logger writing JSON events to w.
func NewLogger(w io.Writer, level zerolog.Level) Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// InstallWarningHandler routes pkg/errors warnings through the default
// logger as structured warn events.
func InstallWarningHandler() {
	errors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("ml warning", "warning", warning)
	})
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for k, v := range pairs(fields) {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for k, v := range pairs(fields) {
		switch val := v.(type) {
		case error:
			// zerolog object marshalers on our error types keep the
			// structure instead of flattening to a string
			if obj, ok := val.(zerolog.LogObjectMarshaler); ok {
				e = e.Object(k, obj)
			} else {
				e = e.AnErr(k, val)
			}
		default:
			e = e.Interface(k, v)
		}
	}
	e.Msg(msg)
}

// pairs folds an alternating key/value slice into a map, dropping a
// trailing key with no value.
func pairs(fields []any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		m[key] = fields[i+1]
	}
	return m
}

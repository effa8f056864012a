package log

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger captures log output in memory for assertions.
type TestLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
	l   Logger
}

// NewTestLogger returns a debug-level logger whose JSON output can be
// inspected with Output().
func NewTestLogger() *TestLogger {
	t := &TestLogger{}
	t.l = NewLogger(&safeWriter{t: t}, zerolog.DebugLevel)
	return t
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.l.Debug(msg, fields...) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.l.Info(msg, fields...) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.l.Warn(msg, fields...) }
func (t *TestLogger) Error(msg string, fields ...any) { t.l.Error(msg, fields...) }
func (t *TestLogger) With(fields ...any) Logger       { return t.l.With(fields...) }

// Output returns everything logged so far.
func (t *TestLogger) Output() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

type safeWriter struct {
	t *TestLogger
}

func (w *safeWriter) Write(p []byte) (int, error) {
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	return w.t.buf.Write(p)
}

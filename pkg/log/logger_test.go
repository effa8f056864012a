package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/skuroda/mlnotes/pkg/errors"
)

func TestLoggerEmitsJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, zerolog.DebugLevel)

	l.Info("fit complete", ModelKey, "Ridge", SamplesKey, 100)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event["message"] != "fit complete" {
		t.Errorf("message = %v", event["message"])
	}
	if event[ModelKey] != "Ridge" {
		t.Errorf("model = %v", event[ModelKey])
	}
	if event[SamplesKey] != float64(100) {
		t.Errorf("n_samples = %v", event[SamplesKey])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, zerolog.WarnLevel)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low-level events leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn event missing: %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, zerolog.DebugLevel).With(OperationKey, "clustering")

	l.Info("started")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event[OperationKey] != "clustering" {
		t.Errorf("operation = %v", event[OperationKey])
	}
}

func TestLoggerOddFieldsDropped(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, zerolog.DebugLevel)

	// trailing key with no value must not panic
	l.Info("msg", "key_without_value")

	if !strings.Contains(buf.String(), "msg") {
		t.Errorf("event missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInstallWarningHandler(t *testing.T) {
	tl := NewTestLogger()
	old := GetLogger()
	SetLogger(tl)
	defer func() {
		SetLogger(old)
		errors.SetZerologWarnFunc(nil)
	}()

	InstallWarningHandler()
	errors.Warn(errors.NewConvergenceWarning("Ridge", 500, ""))

	out := tl.Output()
	if !strings.Contains(out, "ml warning") {
		t.Fatalf("warning event missing: %q", out)
	}
	// structured marshaling keeps the warning fields
	if !strings.Contains(out, "ConvergenceWarning") || !strings.Contains(out, "500") {
		t.Errorf("warning fields missing: %q", out)
	}
}

func TestTestLoggerCaptures(t *testing.T) {
	tl := NewTestLogger()
	tl.Debug("debug event", "k", "v")

	if !strings.Contains(tl.Output(), "debug event") {
		t.Errorf("output = %q", tl.Output())
	}
}

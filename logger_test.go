package wb

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatalf("Logger returned nil")
	}
	// Must not panic and must be disabled at every level.
	Logger().Debug("dropped")
	Logger().Error("dropped")
	if Logger().Enabled(nil, slog.LevelError) {
		t.Errorf("default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("canvas ready", "elements", 3)
	if !strings.Contains(buf.String(), "canvas ready") {
		t.Errorf("log output missing: %q", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	Logger().Info("silent again")
	if buf.Len() != 0 {
		t.Errorf("SetLogger(nil) did not restore the nop logger")
	}
}

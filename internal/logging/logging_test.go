package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("request", "path", "/task")
	logger.Info("hello")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	logger.Warn("sync failed", "task", "t1")
	if !strings.Contains(buf.String(), "sync failed") || !strings.Contains(buf.String(), "task=t1") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("request", "method", "GET")
	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "method=GET") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestDiscard_DisablesAllLevels(t *testing.T) {
	logger := Discard()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelWarn, slog.LevelError} {
		if logger.Enabled(context.Background(), level) {
			t.Errorf("expected %v disabled", level)
		}
	}
}

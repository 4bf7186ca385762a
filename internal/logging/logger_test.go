package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewForDirCreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewForDir("debug", "json", dir)
	if err != nil {
		t.Fatalf("NewForDir returned error: %v", err)
	}
	logger.Info("hello", String("k", "v"))

	data, err := os.ReadFile(filepath.Join(dir, "pacer.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file missing record: %q", string(data))
	}
}

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	NewComponentLogger(logger, "reconcile").Info("tick complete",
		Int("tracked_seconds", 120),
		Bool("tracking", true),
	)

	line := buf.String()
	for _, want := range []string{"INF", "[reconcile]", "tick complete", "tracked_seconds=120", "tracking=true"} {
		if !strings.Contains(line, want) {
			t.Fatalf("console line missing %q: %q", want, line)
		}
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	handler := newConsoleHandler(&buf, levelVar)

	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be suppressed at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error should pass at warn level")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}

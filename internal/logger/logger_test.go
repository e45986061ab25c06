package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: slog.LevelInfo, Format: "text"}, &buf)

	log.Info("review accepted", "category", "Bug Fix")
	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "review accepted") {
		t.Errorf("expected text output with info level and message, got: %s", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: slog.LevelDebug, Format: "json"}, &buf)

	log.Debug("debounce fired")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal JSON log: %v, output: %s", err, buf.String())
	}
	if entry["level"] != "DEBUG" || entry["msg"] != "debounce fired" {
		t.Errorf("unexpected JSON log entry: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: slog.LevelWarn, Format: "text"}, &buf)

	log.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("info message should be filtered at warn level, got: %s", buf.String())
	}

	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("warn message missing: %s", buf.String())
	}
}

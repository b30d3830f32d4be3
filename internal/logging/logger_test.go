package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiomerge/internal/config"
	"audiomerge/internal/services"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestPrettyHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger = NewComponentLogger(logger, "runner")

	logger.Info("merge finished", String("output", "/tmp/out file.mp4"), Int("tracks", 2))

	line := buf.String()
	if !strings.Contains(line, " INFO runner: merge finished") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.Contains(line, `output="/tmp/out file.mp4"`) {
		t.Fatalf("expected quoted output path: %q", line)
	}
	if !strings.Contains(line, "tracks=2") {
		t.Fatalf("expected tracks attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN shown") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))
	logger.WithGroup("track").Info("selected", Int("index", 1))

	if !strings.Contains(buf.String(), "track.index=1") {
		t.Fatalf("expected grouped key: %q", buf.String())
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	logger.Warn("collision", String("output", "a.mp4"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("level = %v, want warn", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
	if payload["output"] != "a.mp4" {
		t.Fatalf("output = %v", payload["output"])
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello file")

	data, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestWithContextAddsMergeFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))

	ctx := services.WithMergeID(context.Background(), "m-1")
	ctx = services.WithInput(ctx, "movie.mkv")
	WithContext(ctx, base).Info("start")

	line := buf.String()
	if !strings.Contains(line, "merge_id=m-1") || !strings.Contains(line, "input=movie.mkv") {
		t.Fatalf("context fields missing: %q", line)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))

	WarnWithContext(logger, "partial output kept", "cleanup_failed", Error(errors.New("busy")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{FieldEventType, FieldErrorHint, FieldImpact} {
		if _, ok := payload[key]; !ok {
			t.Errorf("missing %s in %v", key, payload)
		}
	}
	if payload[FieldEventType] != "cleanup_failed" {
		t.Errorf("event_type = %v", payload[FieldEventType])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}

package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxtract/internal/config"
	"voxtract/internal/logging"
	"voxtract/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (func(), string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "voxtract.log")
	logger, err := logging.New(logging.Options{
		Format:      format,
		Level:       level,
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithFamily(ctx, "Prosody")
	ctx = services.WithRecording(ctx, "b.wav")
	emit := func() {
		l := logging.NewComponentLogger(logging.WithContext(ctx, logger), "runner")
		l.Info("extraction failed", logging.Args(logging.Kind("decode"), logging.Error(errors.New("bad header")))...)
		l.Debug("hidden at info level")
	}
	return emit, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if !strings.Contains(content, "hello") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewFromConfigNil(t *testing.T) {
	logger, err := logging.NewFromConfig(nil)
	if err != nil || logger == nil {
		t.Fatalf("NewFromConfig(nil) = %v, %v", logger, err)
	}
}

func TestConsoleHeaderCarriesSubject(t *testing.T) {
	emit, path := newFileLogger(t, "console", "info")
	emit()
	content := readLog(t, path)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) == 0 {
		t.Fatal("expected output")
	}
	header := lines[0]
	for _, want := range []string{"INFO", "[runner]", "Prosody · b.wav", "– extraction failed"} {
		if !strings.Contains(header, want) {
			t.Fatalf("header %q missing %q", header, want)
		}
	}
	if strings.Contains(header, ".go:") {
		t.Fatalf("expected no source at info level, got %q", header)
	}
	if !strings.Contains(content, "    - failure_kind: decode") {
		t.Fatalf("expected failure kind field, got %q", content)
	}
	if !strings.Contains(content, "    - run_id: run-1") {
		t.Fatalf("expected run id field, got %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Fatalf("debug line leaked at info level: %q", content)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	emit, path := newFileLogger(t, "json", "info")
	emit()
	line := strings.TrimSpace(readLog(t, path))

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode json line %q: %v", line, err)
	}
	checks := map[string]string{
		"level":                "info",
		"msg":                  "extraction failed",
		logging.FieldComponent: "runner",
		logging.FieldFamily:    "Prosody",
		logging.FieldRecording: "b.wav",
		logging.FieldRunID:     "run-1",
		logging.FieldKind:      "decode",
		"error":                "bad header",
	}
	for key, want := range checks {
		if got, _ := payload[key].(string); got != want {
			t.Fatalf("%s = %q, want %q", key, got, want)
		}
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}

func TestDebugIncludesSource(t *testing.T) {
	emit, path := newFileLogger(t, "console", "debug")
	emit()
	content := readLog(t, path)
	if !strings.Contains(content, "hidden at info level") {
		t.Fatalf("expected debug line, got %q", content)
	}
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected source location at debug level, got %q", content)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := logging.New(logging.Options{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "ledger append failed", "ledger_append",
		logging.String(logging.FieldErrorHint, "check disk space"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldEventType] != "ledger_append" {
		t.Fatalf("event_type = %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] != "check disk space" {
		t.Fatalf("error_hint overridden: %v", payload[logging.FieldErrorHint])
	}
	if payload[logging.FieldImpact] == nil {
		t.Fatal("expected default impact")
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.ErrorWithContext(nil, "ignored", "noop")
}

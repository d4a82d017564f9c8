package progress_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"voxtract/internal/progress"
)

func TestNewFallsBackToLogForBuffers(t *testing.T) {
	var buf bytes.Buffer
	if progress.IsTerminal(&buf) {
		t.Fatal("bytes.Buffer is not a terminal")
	}
	if _, ok := progress.New(&buf, nil).(*progress.Log); !ok {
		t.Fatal("expected log reporter for non-terminal writer")
	}
}

func TestLogReporterSamplesProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	reporter := progress.NewLog(logger)

	reporter.Start("Prosody", 20)
	for i := 0; i < 20; i++ {
		reporter.Advance("r.wav")
	}
	reporter.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// one line per 10% bucket from 5% through 100%
	if len(lines) != 11 {
		t.Fatalf("expected 11 sampled lines, got %d:\n%s", len(lines), buf.String())
	}
	var last map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last["done"] != float64(20) || last["family"] != "Prosody" || last["component"] != "progress" {
		t.Fatalf("unexpected final line %v", last)
	}
}

func TestBarsCompleteWithoutBlocking(t *testing.T) {
	var buf bytes.Buffer
	bars := progress.NewBars(&buf)
	bars.Start("Glottal", 3)
	bars.Advance("a.wav")
	bars.Advance("b.wav")
	bars.Advance("c.wav")
	bars.Start("Phonation", 2)
	bars.Advance("a.wav")
	bars.Close()
}

func TestNopReporter(t *testing.T) {
	var r progress.Reporter = progress.Nop{}
	r.Start("Prosody", 1)
	r.Advance("a.wav")
	r.Finish()
	r.Close()
}

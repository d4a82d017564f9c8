package recording_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxtract/internal/recording"
)

func TestIDNameAndStem(t *testing.T) {
	id := recording.NewID("/data/audios/P01_T2_rec_reading.wav")
	if id.Name() != "P01_T2_rec_reading.wav" {
		t.Fatalf("unexpected name %q", id.Name())
	}
	if id.Stem() != "P01_T2_rec_reading" {
		t.Fatalf("unexpected stem %q", id.Stem())
	}
}

func TestEnumerateIsNonRecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.wav", "a.wav", "B.WAV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "d.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := recording.Enumerate(dir, ".wav")
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	var names []string
	for _, rec := range recs {
		names = append(names, rec.ID.Name())
		if !filepath.IsAbs(rec.Path) {
			t.Fatalf("expected absolute path, got %q", rec.Path)
		}
	}
	want := []string{"B.WAV", "a.wav", "c.wav"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestEnumerateMissingDirectory(t *testing.T) {
	recs, err := recording.Enumerate(filepath.Join(t.TempDir(), "absent"), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recordings, got %d", len(recs))
	}
}

func TestHasExtension(t *testing.T) {
	if !recording.HasExtension("x/Y.WAV", "wav") {
		t.Fatal("expected case-insensitive match without dot")
	}
	if recording.HasExtension("x/y.mp3", "") {
		t.Fatal("expected default extension to be .wav")
	}
}

func TestEnumerateMarksStemCollisions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.WAV", "a.wav", "b.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := recording.Enumerate(dir, ".wav")
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recordings, got %d", len(recs))
	}
	for _, rec := range recs {
		collides := rec.ID.Stem() == "a"
		if collides && !errors.Is(rec.Conflict, recording.ErrStemCollision) {
			t.Fatalf("expected %s to be marked as a collision, got %v", rec.ID.Name(), rec.Conflict)
		}
		if !collides && rec.Conflict != nil {
			t.Fatalf("unexpected conflict on %s: %v", rec.ID.Name(), rec.Conflict)
		}
	}
	if msg := recs[0].Conflict.Error(); !strings.Contains(msg, "a.WAV, a.wav") {
		t.Fatalf("conflict should name both recordings, got %q", msg)
	}
}

package ledger_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"voxtract/internal/ledger"
)

func TestAppendCreatesFileLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", ledger.DefaultName)
	l := ledger.New(path)
	if err := l.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no ledger before first failure, stat err %v", err)
	}

	if err := l.Append(ledger.Entry{Family: "Prosody", Recording: "b.wav"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if string(data) != "Prosody: b.wav\n" {
		t.Fatalf("unexpected ledger content %q", data)
	}
}

func TestResetRemovesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), ledger.DefaultName)
	if err := os.WriteFile(path, []byte("Glottal: old.wav\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := ledger.New(path)
	if err := l.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	count, exists, err := ledger.Count(path)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if exists || count != 0 {
		t.Fatalf("expected ledger removed, exists=%v count=%d", exists, count)
	}
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), ledger.DefaultName)
	l := ledger.New(path)
	defer l.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.Append(ledger.Entry{Family: "Phonation", Recording: fmt.Sprintf("r%02d.wav", i)}); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := ledger.Entries(path)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		ok   bool
		want ledger.Entry
	}{
		{"Prosody: a.wav", true, ledger.Entry{Family: "Prosody", Recording: "a.wav"}},
		{"Glottal: name: with colon.wav\n", true, ledger.Entry{Family: "Glottal", Recording: "name: with colon.wav"}},
		{"garbage", false, ledger.Entry{}},
		{": a.wav", false, ledger.Entry{}},
	}
	for _, tc := range cases {
		got, ok := ledger.ParseLine(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseLine(%q) = %+v, %v; want %+v, %v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEntriesMissingFile(t *testing.T) {
	entries, err := ledger.Entries(filepath.Join(t.TempDir(), "none.log"))
	if err != nil || entries != nil {
		t.Fatalf("expected nil entries and error, got %v %v", entries, err)
	}
}

package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxtract/internal/testsupport"
)

type stubEngine struct {
	err   error
	calls int
}

func (s *stubEngine) CheckEngine(context.Context) error {
	s.calls++
	return s.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritableTarget(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing", base, true},
		{"missing nested", filepath.Join(base, "a", "b", "c"), true},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckWritableTarget("target", tc.path)
			if result.Passed != tc.want {
				t.Fatalf("Passed = %v, want %v (%s)", result.Passed, tc.want, result.Detail)
			}
		})
	}
}

func TestCheckEngine(t *testing.T) {
	ok := CheckEngine(context.Background(), &stubEngine{})
	if !ok.Passed {
		t.Fatalf("expected pass, got %s", ok.Detail)
	}
	failed := CheckEngine(context.Background(), &stubEngine{err: errors.New("no module named disvoice")})
	if failed.Passed || failed.Detail != "no module named disvoice" {
		t.Fatalf("unexpected result %#v", failed)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	engine := &stubEngine{}

	results := RunAll(context.Background(), cfg, engine)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected every check to pass, got %#v", results)
	}
	if engine.calls != 1 {
		t.Fatalf("expected one engine check, got %d", engine.calls)
	}

	if err := os.RemoveAll(cfg.Paths.InputDir); err != nil {
		t.Fatal(err)
	}
	results = RunAll(context.Background(), cfg, nil)
	if len(results) != 4 || !Failed(results) {
		t.Fatalf("expected missing input dir to fail without engine check, got %#v", results)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("uv", "ffmpeg"))
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected %s to be available: %s", status.Name, status.Detail)
		}
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/youpy/go-wav"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	mkdirFor(t, path)
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteWAV writes a mono 16-bit PCM recording of silence.
func WriteWAV(t testing.TB, path string, sampleRate uint32, samples int) {
	t.Helper()

	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	writer := wav.NewWriter(f, uint32(samples), 1, sampleRate, 16)
	if err := writer.WriteSamples(make([]wav.Sample, samples)); err != nil {
		t.Fatalf("write samples %s: %v", path, err)
	}
}

// WriteWAVs writes one short recording per name under dir and returns their paths.
func WriteWAVs(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		WriteWAV(t, path, 16000, 160)
		paths = append(paths, path)
	}
	return paths
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}

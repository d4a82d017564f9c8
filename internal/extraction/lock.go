package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBatchRunning is returned when another batch holds the output root lock.
var ErrBatchRunning = errors.New("another extraction batch is running for this output root")

// Lock serializes batches writing to the same output root.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for outputRoot under stateDir.
func LockPath(stateDir, outputRoot string) string {
	abs, err := filepath.Abs(outputRoot)
	if err != nil {
		abs = outputRoot
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(stateDir, "locks", "extract-"+hex.EncodeToString(sum[:6])+".lock")
}

// AcquireLock takes the output root lock without blocking.
func AcquireLock(stateDir, outputRoot string) (*Lock, error) {
	if stateDir == "" {
		stateDir = os.TempDir()
	}
	path := LockPath(stateDir, outputRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBatchRunning, path)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}

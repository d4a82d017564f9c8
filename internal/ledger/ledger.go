package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultName is the ledger file name under the output root.
const DefaultName = "failed_files.log"

// Entry is a single recorded failure.
type Entry struct {
	Family    string
	Recording string
}

// Line renders the entry in ledger format.
func (e Entry) Line() string {
	return e.Family + ": " + e.Recording
}

// ParseLine parses one ledger line.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r\n")
	family, rec, ok := strings.Cut(line, ": ")
	if !ok || strings.TrimSpace(family) == "" || strings.TrimSpace(rec) == "" {
		return Entry{}, false
	}
	return Entry{Family: family, Recording: rec}, true
}

// Ledger appends failure entries to a file.
type Ledger struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// New returns a ledger writing to path. Nothing is touched on disk until Reset
// or Append is called.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file path.
func (l *Ledger) Path() string { return l.path }

// Reset removes any ledger left by a previous run.
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove ledger: %w", err)
	}
	return nil
}

// Append writes one entry, creating the file if needed.
func (l *Ledger) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return fmt.Errorf("ensure ledger directory: %w", err)
		}
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		l.file = file
	}
	if _, err := l.file.WriteString(entry.Line() + "\n"); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}

// Close releases the underlying file handle. The ledger can be appended to again afterwards.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Ledger) closeLocked() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}

// Entries reads every entry from the ledger at path. A missing file yields no entries.
// Lines that do not parse are skipped.
func Entries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry, ok := ParseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}

// Count returns the number of non-empty lines in the ledger at path and whether
// the file exists.
func Count(path string) (int, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, true, fmt.Errorf("read ledger: %w", err)
	}
	return count, true, nil
}

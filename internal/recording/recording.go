package recording

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the audio container scanned for when none is configured.
const DefaultExtension = ".wav"

// ID identifies a recording across the artifact tree, the ledger, and the run history.
type ID struct {
	name string
}

// NewID derives a recording ID from a file path.
func NewID(path string) ID {
	return ID{name: filepath.Base(path)}
}

// Name returns the file name including extension (e.g. "b.wav").
func (id ID) Name() string { return id.name }

// Stem returns the file name without its extension (e.g. "b").
func (id ID) Stem() string {
	return strings.TrimSuffix(id.name, filepath.Ext(id.name))
}

func (id ID) String() string { return id.name }

// ErrStemCollision marks recordings whose names differ only in extension
// case, such as "a.WAV" and "a.wav", and so map to the same artifact.
var ErrStemCollision = errors.New("recording shares its artifact name with another recording")

// Recording is a single input audio file.
type Recording struct {
	Path string
	ID   ID
	// Conflict is set when another recording in the same directory has the
	// same stem. Such recordings must not be skipped or extracted.
	Conflict error
}

// Enumerate lists recordings directly under dir (non-recursive) whose extension
// matches ext case-insensitively. Results are sorted by file name. A missing
// directory yields no recordings.
func Enumerate(dir, ext string) ([]Recording, error) {
	ext = normalizeExtension(ext)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve input dir %q: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input dir %q: %w", abs, err)
	}

	recordings := make([]Recording, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(abs, entry.Name())
		if !entry.Type().IsRegular() {
			// Follow symlinks but skip anything that does not resolve to a file.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		recordings = append(recordings, Recording{Path: path, ID: NewID(path)})
	}
	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].ID.name < recordings[j].ID.name
	})
	markStemCollisions(recordings)
	return recordings, nil
}

func markStemCollisions(recordings []Recording) {
	byStem := make(map[string][]int, len(recordings))
	for i, rec := range recordings {
		stem := rec.ID.Stem()
		byStem[stem] = append(byStem[stem], i)
	}
	for stem, indexes := range byStem {
		if len(indexes) < 2 {
			continue
		}
		names := make([]string, 0, len(indexes))
		for _, i := range indexes {
			names = append(names, recordings[i].ID.Name())
		}
		err := fmt.Errorf("%w: %s all map to %q", ErrStemCollision, strings.Join(names, ", "), stem)
		for _, i := range indexes {
			recordings[i].Conflict = err
		}
	}
}

// HasExtension reports whether path carries ext, compared case-insensitively.
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), normalizeExtension(ext))
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

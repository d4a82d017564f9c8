package selection

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"voxtract/internal/fileutil"
	"voxtract/internal/logging"
	"voxtract/internal/recording"
	"voxtract/internal/services"
)

// Options configures one selection run.
type Options struct {
	Source            string
	Dest              string
	Keywords          []string
	PreserveStructure bool
	// OnCopied is called after every successful copy with the running count.
	OnCopied func(n int, copied Copied)
	// OnFailed is called after every failed copy.
	OnFailed func(failure Failure)
}

// Copied records one copied file.
type Copied struct {
	Source string
	Dest   string
}

// Failure records one file that could not be copied.
type Failure struct {
	Source string
	Err    error
}

// Report is the result of a selection run.
type Report struct {
	Source   string
	Keywords []string
	Found    int
	Matched  int
	Copied   []Copied
	Failures []Failure
}

// FoundMessage returns the scan summary line.
func (r Report) FoundMessage() string {
	return fmt.Sprintf("Found %d .wav files in %s", r.Found, r.Source)
}

// DoneMessage returns the closing summary line.
func (r Report) DoneMessage() string {
	quoted := make([]string, 0, len(r.Keywords))
	for _, keyword := range r.Keywords {
		quoted = append(quoted, "'"+keyword+"'")
	}
	return fmt.Sprintf("Done! Copied %d files matching [%s].", len(r.Copied), strings.Join(quoted, ", "))
}

// Selector scans and copies recordings.
type Selector struct {
	logger *slog.Logger
	copy   func(src, dst string) error
}

// New constructs a Selector.
func New(logger *slog.Logger) *Selector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Selector{
		logger: logging.NewComponentLogger(logger, "selection"),
		copy:   fileutil.CopyRecording,
	}
}

// Scan lists every .wav file under source, recursively, sorted by path.
func Scan(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrValidation, "", "scan", fmt.Sprintf("source directory %s does not exist", source), nil)
		}
		return nil, services.Wrap(services.ErrIO, "", "scan", "stat source", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "", "scan", fmt.Sprintf("source %s is not a directory", source), nil)
	}

	var files []string
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && path != source {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.Type().IsRegular() && recording.HasExtension(path, recording.DefaultExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "", "scan", "walk source", err)
	}
	sort.Strings(files)
	return files, nil
}

// Matches reports whether the file name of path contains any keyword under
// Unicode case folding. Blank keywords never match.
func Matches(path string, keywords []string) bool {
	folder := cases.Fold()
	name := folder.String(filepath.Base(path))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if strings.Contains(name, folder.String(keyword)) {
			return true
		}
	}
	return false
}

// Copy copies the matching files among files into opts.Dest.
func (s *Selector) Copy(ctx context.Context, files []string, opts Options) (Report, error) {
	report := Report{
		Source:   opts.Source,
		Keywords: normalizeKeywords(opts.Keywords),
		Found:    len(files),
	}
	if len(report.Keywords) == 0 {
		return report, services.Wrap(services.ErrValidation, "", "select", "at least one keyword is required", nil)
	}
	if err := os.MkdirAll(opts.Dest, 0o755); err != nil {
		return report, services.Wrap(services.ErrIO, "", "select", "create destination", err)
	}

	written := make(map[string]string)
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !Matches(src, report.Keywords) {
			continue
		}
		report.Matched++

		dst, err := destination(opts, src)
		if err != nil {
			report.fail(opts, src, err)
			s.logger.Warn("selection copy skipped", logging.String("source", src), logging.Error(err))
			continue
		}
		if previous, ok := written[dst]; ok {
			logging.WarnWithContext(s.logger, "flat copy overwrote an earlier file", "selection_collision",
				logging.String("source", src),
				logging.String("previous_source", previous),
				logging.String("dest", dst),
				logging.String(logging.FieldErrorHint, "use --preserve-structure to keep both files"),
			)
		}
		if err := s.copy(src, dst); err != nil {
			report.fail(opts, src, err)
			s.logger.Warn("selection copy failed",
				logging.String("source", src),
				logging.String("dest", dst),
				logging.Error(err),
			)
			continue
		}
		written[dst] = src
		copied := Copied{Source: src, Dest: dst}
		report.Copied = append(report.Copied, copied)
		s.logger.Debug("selection copied", logging.String("source", src), logging.String("dest", dst))
		if opts.OnCopied != nil {
			opts.OnCopied(len(report.Copied), copied)
		}
	}

	s.logger.Info("selection complete",
		logging.Int("found", report.Found),
		logging.Int("matched", report.Matched),
		logging.Int("copied", len(report.Copied)),
		logging.Int("failed", len(report.Failures)),
	)
	return report, nil
}

// Run scans opts.Source and copies the matching files.
func (s *Selector) Run(ctx context.Context, opts Options) (Report, error) {
	files, err := Scan(opts.Source)
	if err != nil {
		return Report{Source: opts.Source, Keywords: normalizeKeywords(opts.Keywords)}, err
	}
	return s.Copy(ctx, files, opts)
}

func (r *Report) fail(opts Options, src string, err error) {
	failure := Failure{Source: src, Err: err}
	r.Failures = append(r.Failures, failure)
	if opts.OnFailed != nil {
		opts.OnFailed(failure)
	}
}

func destination(opts Options, src string) (string, error) {
	if !opts.PreserveStructure {
		return filepath.Join(opts.Dest, filepath.Base(src)), nil
	}
	rel, err := filepath.Rel(opts.Source, src)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	return filepath.Join(opts.Dest, rel), nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			out = append(out, strings.ToLower(keyword))
		}
	}
	return out
}

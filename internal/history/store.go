package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"voxtract/internal/config"
	"voxtract/internal/extraction"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ extraction.Recorder = (*Store)(nil)

// Open initializes or connects to the history database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the history database at dbPath, creating the schema when needed.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection; a single connection keeps foreign keys enforced.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a running run record.
func (s *Store) BeginRun(ctx context.Context, run extraction.RunInfo) error {
	families := make([]string, 0, len(run.Families))
	for _, family := range run.Families {
		families = append(families, family.Dir)
	}
	started := run.StartedAt
	if started.IsZero() {
		started = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, input_dir, output_root, static, families, recordings, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(RunRunning),
		run.InputDir,
		run.OutputRoot,
		boolToInt(run.Static),
		joinList(families),
		run.Recordings,
		formatTime(started),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOutcome appends one outcome to its run.
func (s *Store) RecordOutcome(ctx context.Context, outcome extraction.Outcome) error {
	if outcome.RunID == "" {
		return errors.New("record outcome: run id required")
	}
	var message string
	if outcome.Err != nil {
		message = outcome.Err.Error()
	}
	var kind string
	if outcome.State == extraction.StateFailed {
		kind = string(outcome.Kind)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (
            run_id, family, recording, recording_path, state, kind, error_message,
            artifact_path, duration_ms, nan_replaced, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.Family.Name,
		outcome.Recording.ID.Name(),
		outcome.Recording.Path,
		string(outcome.State),
		nullableString(kind),
		nullableString(message),
		nullableString(outcome.ArtifactPath),
		outcome.Duration.Milliseconds(),
		outcome.Sanitized,
		formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishRun stores the summary counts and marks the run completed or canceled.
func (s *Store) FinishRun(ctx context.Context, summary extraction.Summary) error {
	status := RunCompleted
	if summary.Canceled {
		status = RunCanceled
	}
	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	totals := summary.Totals()
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, extracted = ?, skipped = ?, failed = ?, pending = ?,
            ledger_failures = ?, ledger_path = ?, finished_at = ?
        WHERE id = ?`,
		string(status),
		totals.Extracted,
		totals.Skipped,
		totals.Failed,
		totals.Pending,
		summary.Failures,
		nullableString(summary.LedgerPath),
		formatTime(finished),
		summary.RunID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %q", summary.RunID)
	}
	return nil
}

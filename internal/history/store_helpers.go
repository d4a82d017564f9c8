package history

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

const runColumns = "id, status, input_dir, output_root, static, families, recordings, extracted, skipped, failed, pending, ledger_failures, ledger_path, started_at, finished_at"

const outcomeColumns = "id, run_id, family, recording, recording_path, state, kind, error_message, artifact_path, duration_ms, nan_replaced, recorded_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		static      int
		families    string
		ledgerPath  sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&run.InputDir,
		&run.OutputRoot,
		&static,
		&families,
		&run.Recordings,
		&run.Extracted,
		&run.Skipped,
		&run.Failed,
		&run.Pending,
		&run.LedgerFailures,
		&ledgerPath,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.Static = static != 0
	run.Families = splitList(families)
	run.LedgerPath = ledgerPath.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func scanOutcome(scanner interface{ Scan(dest ...any) error }) (*OutcomeRecord, error) {
	var (
		rec         OutcomeRecord
		kind        sql.NullString
		message     sql.NullString
		artifact    sql.NullString
		durationMS  int64
		recordedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Family,
		&rec.Recording,
		&rec.RecordingPath,
		&rec.State,
		&kind,
		&message,
		&artifact,
		&durationMS,
		&rec.NaNReplaced,
		&recordedRaw,
	); err != nil {
		return nil, err
	}
	rec.Kind = kind.String
	rec.ErrorMessage = message.String
	rec.ArtifactPath = artifact.String
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	if recorded, err := parseTimeString(recordedRaw); err == nil {
		rec.RecordedAt = recorded
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

package history

import "time"

// RunStatus is the lifecycle state of a journaled run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCanceled  RunStatus = "canceled"
)

// Run is one journaled batch.
type Run struct {
	ID         string
	Status     RunStatus
	InputDir   string
	OutputRoot string
	Static     bool
	Families   []string
	Recordings int
	Extracted  int
	Skipped    int
	Failed     int
	Pending    int
	// LedgerFailures is the ledger line count when the run finished.
	LedgerFailures int
	LedgerPath     string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Duration returns the run's elapsed time, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// OutcomeRecord is one journaled (recording, family) outcome.
type OutcomeRecord struct {
	ID            int64
	RunID         string
	Family        string
	Recording     string
	RecordingPath string
	State         string
	Kind          string
	ErrorMessage  string
	ArtifactPath  string
	Duration      time.Duration
	NaNReplaced   int
	RecordedAt    time.Time
}

// OutcomeFilter narrows Outcomes queries.
type OutcomeFilter struct {
	Family string
	State  string
}

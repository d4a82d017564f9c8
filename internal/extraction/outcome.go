package extraction

import (
	"context"
	"time"

	"voxtract/internal/features"
	"voxtract/internal/recording"
	"voxtract/internal/services"
)

// State is the terminal state of one (recording, family) pair.
type State string

const (
	StatePending   State = "pending"
	StateSkipped   State = "skipped"
	StateExtracted State = "extracted"
	StateFailed    State = "failed"
)

// Outcome describes how one recording fared for one family.
type Outcome struct {
	RunID        string
	Family       features.Family
	Recording    recording.Recording
	State        State
	Kind         services.Kind
	Err          error
	ArtifactPath string
	Duration     time.Duration
	// Sanitized counts NaN values replaced with zero before the write.
	Sanitized int
}

// RunInfo describes a batch as it starts.
type RunInfo struct {
	ID         string
	InputDir   string
	OutputRoot string
	Static     bool
	Families   []features.Family
	Recordings int
	StartedAt  time.Time
}

// Recorder journals runs and outcomes. Implementations must not influence
// completion decisions.
type Recorder interface {
	BeginRun(ctx context.Context, run RunInfo) error
	RecordOutcome(ctx context.Context, outcome Outcome) error
	FinishRun(ctx context.Context, summary Summary) error
}

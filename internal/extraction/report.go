package extraction

import (
	"fmt"
	"time"

	"voxtract/internal/features"
)

// FamilyReport counts terminal states for one family pass.
type FamilyReport struct {
	Family    features.Family
	Total     int
	Skipped   int
	Extracted int
	Failed    int
	// Pending counts recordings never reached because the run was canceled.
	Pending int
	// LedgerErrors counts failures that could not be appended to the ledger.
	LedgerErrors int
	Canceled     bool
}

func (r *FamilyReport) add(state State) {
	switch state {
	case StateSkipped:
		r.Skipped++
	case StateExtracted:
		r.Extracted++
	case StateFailed:
		r.Failed++
	default:
		r.Pending++
	}
}

// Summary is the result of one batch run.
type Summary struct {
	RunID      string
	InputDir   string
	OutputRoot string
	Static     bool
	Recordings int
	Families   []FamilyReport
	LedgerPath string
	// Failures is the number of ledger lines after the run.
	Failures   int
	Canceled   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Empty reports whether the batch found no recordings.
func (s Summary) Empty() bool {
	return s.Recordings == 0
}

// Totals sums every family report.
func (s Summary) Totals() FamilyReport {
	var total FamilyReport
	for _, report := range s.Families {
		total.Total += report.Total
		total.Skipped += report.Skipped
		total.Extracted += report.Extracted
		total.Failed += report.Failed
		total.Pending += report.Pending
		total.LedgerErrors += report.LedgerErrors
	}
	total.Canceled = s.Canceled
	return total
}

// Message returns the one-line run summary.
func (s Summary) Message() string {
	switch {
	case s.Empty():
		return fmt.Sprintf("No WAV files found in %s", s.InputDir)
	case s.Failures > 0:
		return fmt.Sprintf("%d failures. Check %s for details.", s.Failures, s.LedgerPath)
	default:
		return "All files processed successfully!"
	}
}

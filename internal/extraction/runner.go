package extraction

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"voxtract/internal/artifact"
	"voxtract/internal/features"
	"voxtract/internal/ledger"
	"voxtract/internal/logging"
	"voxtract/internal/progress"
	"voxtract/internal/recording"
	"voxtract/internal/services"
)

// Runner drives one extractor over a list of recordings.
type Runner struct {
	logger   *slog.Logger
	progress progress.Reporter
	recorder Recorder
	now      func() time.Time
}

// NewRunner builds a Runner. Nil reporter and recorder are allowed.
func NewRunner(logger *slog.Logger, reporter progress.Reporter, recorder Recorder) *Runner {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Runner{
		logger:   logging.NewComponentLogger(logger, "runner"),
		progress: reporter,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run processes recordings in order for family, writing artifacts under
// outputDir and failures to ldg. It never returns an error: every problem is
// a per-recording failure. A canceled context stops the pass between
// recordings and leaves the rest pending.
func (r *Runner) Run(ctx context.Context, family features.Family, extractor features.Extractor, recordings []recording.Recording, outputDir string, ldg *ledger.Ledger, static bool) FamilyReport {
	ctx = services.WithFamily(ctx, family.Name)
	logger := logging.WithContext(ctx, r.logger)
	report := FamilyReport{Family: family, Total: len(recordings)}

	r.progress.Start(family.Name, len(recordings))
	defer r.progress.Finish()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		wrapped := services.Wrap(services.ErrIO, family.Name, "create output dir", outputDir, err)
		logging.ErrorWithContext(logger, "family output directory unavailable", "output_dir_create",
			logging.String("dir", outputDir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions and free space on the output root"),
		)
		for _, rec := range recordings {
			outcome := Outcome{Family: family, Recording: rec, State: StateFailed, Kind: services.KindIO, Err: wrapped}
			r.finish(ctx, logger, &report, ldg, outcome)
		}
		return report
	}

	for i, rec := range recordings {
		if ctx.Err() != nil {
			report.Canceled = true
			report.Pending += len(recordings) - i
			logger.Warn("family pass interrupted", logging.Int("pending", len(recordings)-i))
			break
		}
		outcome := r.process(ctx, family, extractor, rec, outputDir, static)
		if outcome.State == StatePending {
			report.Canceled = true
			report.Pending += len(recordings) - i
			logger.Warn("family pass interrupted", logging.Int("pending", len(recordings)-i))
			break
		}
		r.finish(ctx, logger, &report, ldg, outcome)
	}
	return report
}

func (r *Runner) process(ctx context.Context, family features.Family, extractor features.Extractor, rec recording.Recording, outputDir string, static bool) Outcome {
	ctx = services.WithRecording(ctx, rec.ID.Name())
	outcome := Outcome{Family: family, Recording: rec, ArtifactPath: artifact.Path(outputDir, rec.ID)}

	// Recordings sharing an artifact path cannot be told apart by it, so
	// neither is skipped or extracted.
	if rec.Conflict != nil {
		outcome.State = StateFailed
		outcome.Kind = services.KindIO
		outcome.Err = services.Wrap(services.ErrIO, family.Name, "artifact path", outcome.ArtifactPath, rec.Conflict)
		return outcome
	}

	if artifact.Exists(outcome.ArtifactPath) {
		outcome.State = StateSkipped
		return outcome
	}

	start := r.now()
	arr, err := extractor.Extract(ctx, rec.Path, static)
	if err == nil {
		if verr := arr.Validate(); verr != nil {
			err = services.Wrap(services.ErrExternalTool, family.Name, "extractor output", "", verr)
		}
	}
	if err == nil {
		if arr.HasNaN() {
			outcome.Sanitized = features.SanitizeNaN(arr)
		}
		if werr := artifact.Write(outcome.ArtifactPath, arr); werr != nil {
			err = services.Wrap(services.ErrIO, family.Name, "write artifact", "", werr)
		}
	}
	outcome.Duration = r.now().Sub(start)

	if err != nil {
		// An interrupted engine call is not a verdict on the recording.
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			outcome.State = StatePending
			outcome.Kind = services.KindCanceled
			outcome.Err = err
			return outcome
		}
		outcome.State = StateFailed
		outcome.Kind = services.KindOf(err)
		outcome.Err = err
		return outcome
	}
	outcome.State = StateExtracted
	return outcome
}

func (r *Runner) finish(ctx context.Context, logger *slog.Logger, report *FamilyReport, ldg *ledger.Ledger, outcome Outcome) {
	if runID, ok := services.RunIDFromContext(ctx); ok {
		outcome.RunID = runID
	}
	report.add(outcome.State)
	recLogger := logger.With(logging.String(logging.FieldRecording, outcome.Recording.ID.Name()))

	switch outcome.State {
	case StateSkipped:
		recLogger.Debug("artifact exists, skipping", logging.String("artifact", outcome.ArtifactPath))
	case StateExtracted:
		attrs := []logging.Attr{
			logging.String("artifact", outcome.ArtifactPath),
			logging.Duration("elapsed", outcome.Duration),
		}
		if outcome.Sanitized > 0 {
			attrs = append(attrs, logging.Int("nan_replaced", outcome.Sanitized))
		}
		recLogger.Debug("features extracted", logging.Args(attrs...)...)
	case StateFailed:
		logging.WarnWithContext(recLogger, "extraction failed", "extraction_failed",
			logging.Kind(string(outcome.Kind)),
			logging.Error(outcome.Err),
			logging.String(logging.FieldErrorHint, hintFor(outcome)),
			logging.String(logging.FieldImpact, "recording listed in the failure ledger and retried on the next run"),
		)
		if ldg != nil {
			entry := ledger.Entry{Family: outcome.Family.Name, Recording: outcome.Recording.ID.Name()}
			if err := ldg.Append(entry); err != nil {
				report.LedgerErrors++
				logging.ErrorWithContext(recLogger, "failure ledger append failed", "ledger_append",
					logging.String("ledger", ldg.Path()),
					logging.Error(err),
				)
			}
		}
	}

	if r.recorder != nil {
		if err := r.recorder.RecordOutcome(context.WithoutCancel(ctx), outcome); err != nil {
			recLogger.Warn("history record failed", logging.Error(err))
		}
	}
	r.progress.Advance(outcome.Recording.ID.Name())
}

func hintFor(outcome Outcome) string {
	if errors.Is(outcome.Err, recording.ErrStemCollision) {
		return "rename one of the recordings so each file name stem is unique"
	}
	switch outcome.Kind {
	case services.KindDecode:
		return "the recording is not a readable WAV file; re-export or remove it"
	case services.KindIO:
		return "check permissions and free space on the output root"
	case services.KindEngine:
		return "run 'voxtract doctor' and inspect the engine error"
	default:
		return "check logs for details"
	}
}

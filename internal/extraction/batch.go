package extraction

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"voxtract/internal/features"
	"voxtract/internal/ledger"
	"voxtract/internal/logging"
	"voxtract/internal/progress"
	"voxtract/internal/recording"
	"voxtract/internal/services"
)

// ExtractorFactory returns the extractor bound to a family.
type ExtractorFactory func(family features.Family) features.Extractor

// Options configure a Batch.
type Options struct {
	// Families run in declared order regardless of slice order. Empty means all.
	Families   []features.Family
	Extension  string
	LedgerName string
	// StateDir holds the output root lock files.
	StateDir string
	Progress progress.Reporter
	Recorder Recorder
}

// Batch is the batch extraction controller.
type Batch struct {
	opts       Options
	extractors ExtractorFactory
	logger     *slog.Logger
	newRunID   func() string
	now        func() time.Time
}

// NewBatch builds a controller using extractors to bind families.
func NewBatch(opts Options, extractors ExtractorFactory, logger *slog.Logger) *Batch {
	if opts.Extension == "" {
		opts.Extension = recording.DefaultExtension
	}
	if opts.LedgerName == "" {
		opts.LedgerName = ledger.DefaultName
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batch{
		opts:       opts,
		extractors: extractors,
		logger:     logger,
		newRunID:   uuid.NewString,
		now:        time.Now,
	}
}

// LedgerPath returns the ledger location for outputRoot.
func (b *Batch) LedgerPath(outputRoot string) string {
	return filepath.Join(outputRoot, b.opts.LedgerName)
}

// Run extracts every configured family for the recordings directly under
// inputDir. Per-recording failures never produce an error; only lock, ledger
// reset and enumeration problems do.
func (b *Batch) Run(ctx context.Context, inputDir, outputRoot string, static bool) (Summary, error) {
	summary := Summary{
		InputDir:   inputDir,
		OutputRoot: outputRoot,
		Static:     static,
		LedgerPath: b.LedgerPath(outputRoot),
		StartedAt:  b.now(),
	}
	logger := logging.NewComponentLogger(b.logger, "batch")

	recordings, err := recording.Enumerate(inputDir, b.opts.Extension)
	if err != nil {
		return summary, services.Wrap(services.ErrIO, "", "enumerate recordings", inputDir, err)
	}
	summary.Recordings = len(recordings)
	if len(recordings) == 0 {
		logger.Info("no recordings found", logging.String("input_dir", inputDir))
		summary.FinishedAt = b.now()
		return summary, nil
	}

	families := b.families()

	lock, err := AcquireLock(b.opts.StateDir, outputRoot)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release batch lock failed", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	ldg := ledger.New(summary.LedgerPath)
	defer ldg.Close()
	if err := ldg.Reset(); err != nil {
		return summary, services.Wrap(services.ErrIO, "", "reset ledger", summary.LedgerPath, err)
	}

	summary.RunID = b.newRunID()
	ctx = services.WithRunID(ctx, summary.RunID)
	logger = logging.WithContext(ctx, logger)

	recorder := b.opts.Recorder
	if recorder != nil {
		info := RunInfo{
			ID:         summary.RunID,
			InputDir:   inputDir,
			OutputRoot: outputRoot,
			Static:     static,
			Families:   families,
			Recordings: len(recordings),
			StartedAt:  summary.StartedAt,
		}
		if err := recorder.BeginRun(ctx, info); err != nil {
			logger.Warn("run history unavailable for this batch", logging.Error(err))
			recorder = nil
		}
	}

	logger.Info("batch started",
		logging.String("input_dir", inputDir),
		logging.String("output_root", outputRoot),
		logging.Int("recordings", len(recordings)),
		logging.Int("families", len(families)),
		logging.Bool("static", static),
	)

	runner := NewRunner(b.logger, b.opts.Progress, recorder)
	for _, family := range families {
		if ctx.Err() != nil {
			summary.Canceled = true
			summary.Families = append(summary.Families, FamilyReport{Family: family, Total: len(recordings), Pending: len(recordings), Canceled: true})
			continue
		}
		extractor := b.extractors(family)
		report := runner.Run(ctx, family, extractor, recordings, filepath.Join(outputRoot, family.Dir), ldg, static)
		if report.Canceled {
			summary.Canceled = true
		}
		summary.Families = append(summary.Families, report)
	}

	if err := ldg.Close(); err != nil {
		logger.Warn("close ledger failed", logging.Error(err))
	}
	count, _, err := ledger.Count(summary.LedgerPath)
	if err != nil {
		logger.Warn("read ledger failed; using in-memory failure count", logging.Error(err))
		count = summary.Totals().Failed
	}
	summary.Failures = count
	summary.FinishedAt = b.now()

	totals := summary.Totals()
	logger.Info("batch finished",
		logging.Int("extracted", totals.Extracted),
		logging.Int("skipped", totals.Skipped),
		logging.Int("failed", totals.Failed),
		logging.Int("pending", totals.Pending),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	if recorder != nil {
		if err := recorder.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
			logger.Warn("finish run history failed", logging.Error(err))
		}
	}
	return summary, nil
}

// families orders the configured families by declared order; families
// outside the known set keep their relative order at the end.
func (b *Batch) families() []features.Family {
	if len(b.opts.Families) == 0 {
		return features.All()
	}
	wanted := make(map[string]features.Family, len(b.opts.Families))
	for _, family := range b.opts.Families {
		wanted[family.Dir] = family
	}
	ordered := make([]features.Family, 0, len(wanted))
	for _, known := range features.All() {
		if family, ok := wanted[known.Dir]; ok {
			ordered = append(ordered, family)
			delete(wanted, known.Dir)
		}
	}
	for _, family := range b.opts.Families {
		if _, ok := wanted[family.Dir]; ok {
			ordered = append(ordered, family)
			delete(wanted, family.Dir)
		}
	}
	return ordered
}

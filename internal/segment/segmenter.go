package segment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"voxtract/internal/logging"
	"voxtract/internal/services"
)

// Status is the result of processing one plan row.
type Status string

const (
	StatusCut     Status = "cut"
	StatusMissing Status = "missing"
	StatusFailed  Status = "failed"
)

// Event describes one processed row. Index is 1-based.
type Event struct {
	Index  int
	Total  int
	Row    Row
	Input  string
	Output string
	Status Status
	Err    error
}

// Options configures a segmentation run.
type Options struct {
	BaseDir      string
	OutputFolder string
	// OnEvent is called after every row, in plan order.
	OnEvent func(Event)
}

// Report summarizes a segmentation run.
type Report struct {
	Rows    int
	Cut     int
	Missing int
	Failed  int
	Events  []Event
}

// Segmenter applies a plan with a Cutter.
type Segmenter struct {
	cutter *Cutter
	logger *slog.Logger
}

// NewSegmenter constructs a Segmenter.
func NewSegmenter(cutter *Cutter, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Segmenter{
		cutter: cutter,
		logger: logging.NewComponentLogger(logger, "segment"),
	}
}

// Run cuts every row of plan. Missing inputs and ffmpeg failures are counted
// and skipped; only cancellation stops the run early.
func (s *Segmenter) Run(ctx context.Context, plan Plan, opts Options) (Report, error) {
	folder := opts.OutputFolder
	if folder == "" {
		folder = "segmented"
	}
	report := Report{Rows: len(plan.Rows)}
	for _, invalid := range plan.Invalid {
		logging.WarnWithContext(s.logger, "segment plan row skipped", "segment_row_invalid",
			logging.Int("line", invalid.Line),
			logging.Error(invalid.Err),
			logging.String(logging.FieldErrorHint, "fix the row in the plan file"),
		)
	}

	for i, row := range plan.Rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		event := s.process(ctx, row, opts.BaseDir, folder)
		event.Index = i + 1
		event.Total = len(plan.Rows)
		if errors.Is(event.Err, context.Canceled) || errors.Is(event.Err, context.DeadlineExceeded) {
			return report, event.Err
		}
		switch event.Status {
		case StatusCut:
			report.Cut++
		case StatusMissing:
			report.Missing++
		default:
			report.Failed++
		}
		report.Events = append(report.Events, event)
		if opts.OnEvent != nil {
			opts.OnEvent(event)
		}
	}

	s.logger.Info("segmentation complete",
		logging.Int("rows", report.Rows),
		logging.Int("cut", report.Cut),
		logging.Int("missing", report.Missing),
		logging.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Segmenter) process(ctx context.Context, row Row, baseDir, folder string) Event {
	input := InputPath(baseDir, row.Path)
	event := Event{Row: row, Input: input}
	logger := s.logger.With(logging.String(logging.FieldRecording, filepath.Base(input)))

	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		event.Status = StatusMissing
		if err == nil {
			err = fmt.Errorf("%s is a directory", input)
		} else if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("file not found: %s", input)
		}
		event.Err = services.Wrap(services.ErrIO, "", "segment", "input unavailable", err)
		logger.Warn("segment input missing", logging.String("input", input), logging.Int("line", row.Line))
		return event
	}

	output, err := OutputPath(input, row.Task, folder)
	if err != nil {
		event.Status = StatusFailed
		event.Err = services.Wrap(services.ErrValidation, "", "segment", "output name", err)
		return event
	}
	event.Output = output
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		event.Status = StatusFailed
		event.Err = services.Wrap(services.ErrIO, "", "segment", "create output directory", err)
		logger.Warn("segment output directory unavailable", logging.String("output", output), logging.Error(err))
		return event
	}

	if err := s.cutter.Cut(ctx, input, output, row.Start, row.Duration()); err != nil {
		event.Status = StatusFailed
		event.Err = err
		if ctx.Err() == nil {
			logging.WarnWithContext(logger, "ffmpeg cut failed", "segment_cut_failed",
				logging.String("output", output),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run the logged ffmpeg command manually to inspect"),
				logging.String("command", s.cutter.CommandLine(input, output, row.Start, row.Duration())),
			)
		}
		return event
	}

	event.Status = StatusCut
	logger.Debug("segment cut",
		logging.String("output", output),
		logging.Float64("start", row.Start),
		logging.Float64("duration", row.Duration()),
	)
	return event
}

package progress

import (
	"log/slog"

	"voxtract/internal/logging"
)

// Log reports progress as sampled INFO lines.
type Log struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	family  string
	total   int
	done    int
}

// NewLog creates a log reporter emitting roughly every 10% per family.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(10),
	}
}

func (l *Log) Start(family string, total int) {
	l.family = family
	l.total = total
	l.done = 0
	l.sampler.Reset()
}

func (l *Log) Advance(recording string) {
	l.done++
	if !l.sampler.ShouldLogCount(l.done, l.total, l.family) {
		return
	}
	l.logger.Info("extraction progress",
		logging.String(logging.FieldFamily, l.family),
		logging.String(logging.FieldRecording, recording),
		logging.Int("done", l.done),
		logging.Int("total", l.total),
	)
}

func (l *Log) Finish() {}

func (l *Log) Close() {}

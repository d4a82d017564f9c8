package progress

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Reporter receives progress for one family at a time.
type Reporter interface {
	// Start begins a family pass over total recordings.
	Start(family string, total int)
	// Advance marks one recording as finished.
	Advance(recording string)
	// Finish ends the current family pass.
	Finish()
	// Close releases terminal resources after the batch.
	Close()
}

// New selects bars when writer is a terminal and sampled logging otherwise.
func New(writer io.Writer, logger *slog.Logger) Reporter {
	if IsTerminal(writer) {
		return NewBars(writer)
	}
	return NewLog(logger)
}

// IsTerminal reports whether writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Advance(string)    {}
func (Nop) Finish()           {}
func (Nop) Close()            {}

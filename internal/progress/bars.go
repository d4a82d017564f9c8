package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bars renders one mpb bar per family.
type Bars struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewBars creates a bar container writing to w.
func NewBars(w io.Writer) *Bars {
	return &Bars{progress: mpb.New(mpb.WithWidth(64), mpb.WithOutput(w))}
}

func (b *Bars) Start(family string, total int) {
	b.Finish()
	b.bar = b.progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Extracting "+family+": "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" "),
			decor.AverageETA(decor.ET_STYLE_GO),
		),
	)
}

func (b *Bars) Advance(string) {
	if b.bar != nil {
		b.bar.Increment()
	}
}

// Finish completes the current bar; a pass stopped early leaves the bar where it was.
func (b *Bars) Finish() {
	if b.bar == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.bar = nil
}

func (b *Bars) Close() {
	b.Finish()
	b.progress.Wait()
}

// Package progress reports how far through a loop the workers are. It never affects results.
package progress

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Observer is told when a phase starts, each time an iteration of it completes and when it ends.
// Step is called concurrently by the workers.
type Observer interface {
	Start(phase string, total int)
	Step()
	Done()
}

// Nop discards progress
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Step()             {}
func (Nop) Done()             {}

// Counter counts the completed iterations of the current phase and logs the count when the
// phase ends. It stands in for the bars when the output is not a terminal.
type Counter struct {
	phase string
	total int64
	count atomic.Int64
}

// Start resets the counter for a new phase
func (c *Counter) Start(phase string, total int) {
	c.phase = phase
	c.total = int64(total)
	c.count.Store(0)
}

// Step records one completed iteration
func (c *Counter) Step() { c.count.Add(1) }

// Done logs how many iterations of the phase completed
func (c *Counter) Done() {
	log.Printf("\t%v: %d / %d done", c.phase, c.count.Load(), c.total)
}

// Count returns the completed iterations and the total for the current phase
func (c *Counter) Count() (int64, int64) { return c.count.Load(), c.total }

// Bars draws one progress bar per phase
type Bars struct {
	sync.Mutex
	pbs *mpb.Progress
	bar *mpb.Bar
}

// NewBars returns an Observer that draws to w
func NewBars(w io.Writer) *Bars {
	return &Bars{pbs: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

// Start adds a bar for the phase
func (b *Bars) Start(phase string, total int) {
	b.Lock()
	defer b.Unlock()
	name := phase + ": "
	b.bar = b.pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 20),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
}

// Step moves the current bar on by one
func (b *Bars) Step() {
	b.Lock()
	defer b.Unlock()
	if b.bar != nil {
		b.bar.Increment()
	}
}

// Done completes the current bar, even if the phase stopped early
func (b *Bars) Done() {
	b.Lock()
	defer b.Unlock()
	if b.bar != nil {
		b.bar.SetTotal(-1, true)
		b.bar = nil
	}
}

// Wait flushes the bars, it must be called once all phases are done
func (b *Bars) Wait() {
	b.pbs.Wait()
}

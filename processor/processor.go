// Package processor runs the processing loop: it drains queued sample
// chunks, advances them through the framer and analyzer into the
// history store, and redraws the output once per tick.
package processor

import (
	"context"
	"time"

	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/history"
	"github.com/noriah/sgram/input"
	"github.com/noriah/sgram/util"
)

// rateWindowSize is how many tick measurements the rows/sec average
// spans.
const rateWindowSize = 30

// Stats is the throughput snapshot handed to the output every tick.
type Stats struct {
	RowsPerSec     float64
	RealTimeFactor float64 // RowsPerSec * hop / rate; 1.0 = real time
	TotalRows      int
	Dropped        uint64
}

// Output receives one draw per processing tick. Paused is read each
// tick; while it reports true the queue is left undrained and fills up,
// dropping chunks at the producer side.
type Output interface {
	Paused() bool
	Draw(snap history.Snapshot, stats Stats) error
}

// Config holds the processing loop wiring.
type Config struct {
	SampleRate  float64
	Hop         int
	ProcessRate int // ticks per second, 0 defaults to 30

	Framer   *dsp.Framer
	Analyzer *dsp.Analyzer
	History  *history.History
	Queue    *Queue
	Output   Output
}

// Processor is the single-threaded processing context.
type Processor struct {
	cfg Config

	rateWindow *util.MovingWindow
	totalRows  int
}

// New returns a processor for cfg.
func New(cfg Config) *Processor {
	if cfg.ProcessRate <= 0 {
		cfg.ProcessRate = 30
	}

	return &Processor{
		cfg:        cfg,
		rateWindow: util.NewMovingWindow(rateWindowSize),
	}
}

// Process runs the loop until ctx is canceled. Rendering and export
// both happen on this goroutine via Output.Draw, so the history store
// needs no locking.
func (p *Processor) Process(ctx context.Context) {
	dur := time.Second / time.Duration(p.cfg.ProcessRate)
	ticker := time.NewTicker(dur)
	defer ticker.Stop()

	last := time.Now()

	for {
		rows := 0
		if !p.cfg.Output.Paused() {
			p.cfg.Queue.Drain(func(chunk input.Chunk) {
				p.cfg.Framer.Push(chunk.Samples)
			})

			for {
				frame, ok := p.cfg.Framer.Next()
				if !ok {
					break
				}
				p.cfg.History.Append(p.cfg.Analyzer.Analyze(frame))
				rows++
			}
		}

		now := time.Now()
		p.totalRows += rows
		if dt := now.Sub(last).Seconds(); dt > 0 {
			p.rateWindow.Update(float64(rows) / dt)
		}
		last = now

		rps := p.rateWindow.Mean()
		stats := Stats{
			RowsPerSec:     rps,
			RealTimeFactor: rps * float64(p.cfg.Hop) / p.cfg.SampleRate,
			TotalRows:      p.totalRows,
			Dropped:        p.cfg.Queue.Dropped(),
		}

		p.cfg.Output.Draw(p.cfg.History.Snapshot(), stats)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

package dsp

import (
	"github.com/noriah/sgram/dsp/window"
)

// FramerConfig holds framer parameters.
type FramerConfig struct {
	WindowLen   int             // L, samples per analysis frame
	FFTSize     int             // N, frame is zero-padded to this size
	Hop         int             // samples advanced between frames
	Window      window.Function // applied to the first L samples
	PreEmphasis float64         // y[n] = x[n] - beta*x[n-1], 0 disables
}

// Framer slices a continuous sample stream into overlapping, windowed,
// zero-padded analysis frames. It owns carry-over state between calls and
// is not restartable mid-stream.
type Framer struct {
	cfg FramerConfig

	pending []float64
	frame   []float64
	prev    float64
}

// NewFramer returns a framer for the given geometry.
func NewFramer(cfg FramerConfig) *Framer {
	if cfg.Window == nil {
		cfg.Window = window.Rectangle
	}

	return &Framer{
		cfg:   cfg,
		frame: make([]float64, cfg.FFTSize),
	}
}

// Push buffers newly arrived samples, applying pre-emphasis if enabled.
func (fr *Framer) Push(samples []float64) {
	if fr.cfg.PreEmphasis == 0 {
		fr.pending = append(fr.pending, samples...)
		return
	}

	for _, x := range samples {
		fr.pending = append(fr.pending, x-fr.cfg.PreEmphasis*fr.prev)
		fr.prev = x
	}
}

// Buffered returns the number of unconsumed samples.
func (fr *Framer) Buffered() int {
	return len(fr.pending)
}

// Next emits the next windowed frame of FFTSize samples, or false when
// fewer than WindowLen samples are buffered. The returned slice is valid
// until the next call.
func (fr *Framer) Next() ([]float64, bool) {
	if len(fr.pending) < fr.cfg.WindowLen {
		return nil, false
	}

	n := copy(fr.frame, fr.pending[:fr.cfg.WindowLen])
	for i := n; i < len(fr.frame); i++ {
		fr.frame[i] = 0
	}

	fr.cfg.Window(fr.frame[:fr.cfg.WindowLen])

	// Advance by hop, retaining the overlap for the next frame.
	kept := copy(fr.pending, fr.pending[fr.cfg.Hop:])
	fr.pending = fr.pending[:kept]

	return fr.frame, true
}

// Reset discards all carry-over state.
func (fr *Framer) Reset() {
	fr.pending = fr.pending[:0]
	fr.prev = 0
}

package dsp

import "math"

// Scale selects the frequency-axis warping used for display.
type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog
	ScaleMel
)

// MinFreq is the low-frequency clamp for log and mel scales; both are
// singular at 0 Hz.
const MinFreq = 20.0

func (s Scale) String() string {
	switch s {
	case ScaleLog:
		return "log"
	case ScaleMel:
		return "mel"
	default:
		return "linear"
	}
}

// Mapper maps bin indices to normalized display positions and display
// spans back to bin ranges. Zoom z keeps only the lowest 1/z fraction
// of the spectrum visible, re-normalized to [0,1]. Position is
// monotonic non-decreasing in the bin index for any fixed scale and
// zoom; positions above 1 are off-screen.
type Mapper struct {
	scale Scale
	rate  float64
	bins  int // N/2+1
	df    float64
	fmin  float64
	fmax  float64 // visible maximum, (rate/2)/zoom
}

// NewMapper returns a mapper for rows of bins values at the given rate.
func NewMapper(scale Scale, zoom, rate float64, bins int) Mapper {
	if zoom < 1.0 {
		zoom = 1.0
	}

	m := Mapper{
		scale: scale,
		rate:  rate,
		bins:  bins,
		df:    (rate / 2.0) / float64(bins-1),
		fmax:  (rate / 2.0) / zoom,
	}

	if scale != ScaleLinear {
		m.fmin = MinFreq
	}

	return m
}

// Position maps bin b to its normalized display position.
func (m Mapper) Position(b int) float64 {
	f := float64(b) * m.df

	switch m.scale {
	case ScaleLog:
		if f <= m.fmin {
			return 0.0
		}
		return math.Log(f/m.fmin) / math.Log(m.fmax/m.fmin)

	case ScaleMel:
		if f <= m.fmin {
			return 0.0
		}
		return (melOf(f) - melOf(m.fmin)) / (melOf(m.fmax) - melOf(m.fmin))

	default:
		return f / m.fmax
	}
}

// FreqAt maps a normalized display position back to a frequency.
func (m Mapper) FreqAt(t float64) float64 {
	if t < 0 {
		t = 0
	}

	switch m.scale {
	case ScaleLog:
		a := math.Max(m.fmax/m.fmin, 1.01)
		return m.fmin * math.Pow(a, t)

	case ScaleMel:
		lo, hi := melOf(m.fmin), melOf(m.fmax)
		return freqOfMel(lo + t*(hi-lo))

	default:
		return t * m.fmax
	}
}

// BinRange maps the display span [t0, t1) to the half-open bin range
// [lo, hi). The range always covers at least one bin, and adjacent
// spans tile the spectrum without gaps; a destination cell must
// aggregate over its full range rather than sample a single bin.
func (m Mapper) BinRange(t0, t1 float64) (lo, hi int) {
	lo = int(m.FreqAt(t0) / m.df)
	hi = int(m.FreqAt(t1)/m.df) + 1

	if lo < 0 {
		lo = 0
	}
	if lo > m.bins-1 {
		lo = m.bins - 1
	}
	if hi > m.bins {
		hi = m.bins
	}
	if hi <= lo {
		hi = lo + 1
	}

	return lo, hi
}

func melOf(f float64) float64 {
	return 2595.0 * math.Log10(1.0+f/700.0)
}

func freqOfMel(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

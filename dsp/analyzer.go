// Package dsp turns a mono sample stream into calibrated spectral rows.
package dsp

import (
	"math"

	"github.com/noriah/sgram/fft"
)

// Magnitude exponents for the dB law.
const (
	AlphaMagnitude = 1 // 20*log10(|X|)
	AlphaPower     = 2 // 10*log10(|X|^2)
)

// Pre-log clamps. Exact-zero bins would otherwise produce -Inf.
const (
	epsMagnitude = 1e-12
	epsPower     = 1e-24
)

// AnalyzerConfig holds analyzer parameters.
type AnalyzerConfig struct {
	SampleRate float64 // rate of the incoming stream
	FFTSize    int     // N, transform size
	Alpha      int     // AlphaMagnitude or AlphaPower
	DBFloor    float64 // display floor used by ClampFloor
	Normalize  bool    // shift each row so its peak sits at 0 dB
	ClampFloor bool    // clamp every bin to DBFloor, after Normalize
}

// Analyzer runs the forward transform on analysis frames and reduces
// them to rows of dB values, one per non-negative-frequency bin.
//
// Normalize trades absolute level for per-row contrast: rows can no
// longer be compared against each other once each peaks at 0 dB. The
// row maximum is taken over the full bin range, independent of any
// display zoom.
type Analyzer struct {
	cfg AnalyzerConfig

	plan    *fft.Plan
	frame   []float64
	fftBuf  []complex128
	binsLen int
}

// NewAnalyzer returns an analyzer for frames of cfg.FFTSize samples.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	az := &Analyzer{
		cfg:     cfg,
		frame:   make([]float64, cfg.FFTSize),
		fftBuf:  make([]complex128, cfg.FFTSize/2+1),
		binsLen: cfg.FFTSize/2 + 1,
	}

	fft.InitPlan(&az.plan, az.frame, az.fftBuf)

	return az
}

// BinCount returns the number of bins per row, N/2+1.
func (az *Analyzer) BinCount() int {
	return az.binsLen
}

// BinSpacing returns the frequency spacing between bins, Fs/N.
func (az *Analyzer) BinSpacing() float64 {
	return az.cfg.SampleRate / float64(az.cfg.FFTSize)
}

// Analyze transforms one frame of FFTSize samples into a freshly
// allocated row of BinCount dB values.
func (az *Analyzer) Analyze(frame []float64) []float64 {
	copy(az.frame, frame)
	az.plan.Execute()

	row := make([]float64, az.binsLen)

	for i, c := range az.fftBuf {
		re, im := real(c), imag(c)
		if az.cfg.Alpha == AlphaPower {
			p := math.Max(re*re+im*im, epsPower)
			row[i] = 10.0 * math.Log10(p)
		} else {
			m := math.Max(math.Hypot(re, im), epsMagnitude)
			row[i] = 20.0 * math.Log10(m)
		}
	}

	if az.cfg.Normalize {
		max := row[0]
		for _, v := range row[1:] {
			if v > max {
				max = v
			}
		}
		for i := range row {
			row[i] -= max
		}
	}

	if az.cfg.ClampFloor {
		for i := range row {
			if row[i] < az.cfg.DBFloor {
				row[i] = az.cfg.DBFloor
			}
		}
	}

	return row
}

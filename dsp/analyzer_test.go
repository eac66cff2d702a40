package dsp

import (
	"math"
	"testing"

	"github.com/noriah/sgram/dsp/window"
)

func sineFrame(n int, binFreq float64, rate float64) []float64 {
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * binFreq * float64(i) / rate)
	}
	return frame
}

func peakBin(row []float64) int {
	peak := 0
	for i, v := range row {
		if v > row[peak] {
			peak = i
		}
	}
	return peak
}

func TestAnalyzeSinePeak(t *testing.T) {
	const (
		rate    = 48000.0
		fftSize = 1024
	)

	az := NewAnalyzer(AnalyzerConfig{
		SampleRate: rate,
		FFTSize:    fftSize,
		Alpha:      AlphaMagnitude,
		DBFloor:    -80,
	})

	for _, freq := range []float64{440, 1000, 5000, 12000} {
		frame := sineFrame(fftSize, freq, rate)
		window.Hann(frame)

		row := az.Analyze(frame)
		if len(row) != fftSize/2+1 {
			t.Fatalf("row has %d bins, want %d", len(row), fftSize/2+1)
		}

		want := int(math.Round(freq * fftSize / rate))
		if got := peakBin(row); got < want-1 || got > want+1 {
			t.Errorf("peak for %v Hz at bin %d, want %d±1", freq, got, want)
		}
	}
}

func TestAnalyzeNormalizePeaksAtZero(t *testing.T) {
	const fftSize = 256

	az := NewAnalyzer(AnalyzerConfig{
		SampleRate: 48000,
		FFTSize:    fftSize,
		Alpha:      AlphaMagnitude,
		Normalize:  true,
	})

	frame := sineFrame(fftSize, 3000, 48000)
	for i := range frame {
		frame[i] *= 0.001 // quiet input still normalizes to 0 dB peak
	}

	row := az.Analyze(frame)

	max := row[peakBin(row)]
	if math.Abs(max) > 1e-9 {
		t.Errorf("normalized row peak = %v, want 0", max)
	}
}

func TestAnalyzeClampFloor(t *testing.T) {
	const floor = -60.0

	az := NewAnalyzer(AnalyzerConfig{
		SampleRate: 48000,
		FFTSize:    128,
		Alpha:      AlphaPower,
		DBFloor:    floor,
		ClampFloor: true,
	})

	// Silence would sit far below the floor without clamping.
	row := az.Analyze(make([]float64, 128))

	for i, v := range row {
		if v < floor {
			t.Errorf("bin %d = %v below floor %v", i, v, floor)
		}
	}
}

func TestAnalyzeSilenceIsFinite(t *testing.T) {
	for _, alpha := range []int{AlphaMagnitude, AlphaPower} {
		az := NewAnalyzer(AnalyzerConfig{
			SampleRate: 48000,
			FFTSize:    64,
			Alpha:      alpha,
		})

		row := az.Analyze(make([]float64, 64))
		for i, v := range row {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				t.Errorf("alpha %d bin %d = %v, want finite", alpha, i, v)
			}
		}
	}
}

func TestAnalyzerBinGeometry(t *testing.T) {
	az := NewAnalyzer(AnalyzerConfig{SampleRate: 44100, FFTSize: 2048})

	if got := az.BinCount(); got != 1025 {
		t.Errorf("BinCount = %d, want 1025", got)
	}
	if got := az.BinSpacing(); math.Abs(got-44100.0/2048.0) > 1e-12 {
		t.Errorf("BinSpacing = %v, want %v", got, 44100.0/2048.0)
	}
}

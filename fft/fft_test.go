package fft

import (
	"math"
	"testing"
)

func TestExecuteDC(t *testing.T) {
	const size = 8

	input := make([]float64, size)
	for i := range input {
		input[i] = 1.0
	}

	output := make([]complex128, size/2+1)

	var plan *Plan
	InitPlan(&plan, input, output)
	plan.Execute()

	if got := real(output[0]); math.Abs(got-size) > 1e-9 {
		t.Errorf("bin 0 = %v, want %v", got, size)
	}

	for i := 1; i < len(output); i++ {
		if mag := math.Hypot(real(output[i]), imag(output[i])); mag > 1e-9 {
			t.Errorf("bin %d magnitude = %v, want 0", i, mag)
		}
	}
}

func Benchmark(b *testing.B) {
	reals := generateReals()
	cmplx := make([]complex128, len(reals)/2+1)

	var plan *Plan
	InitPlan(&plan, reals, cmplx)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		plan.Execute()
	}
}

const numReals = 44100

func generateReals() []float64 {
	input := make([]float64, numReals)

	c := 3.1
	for i := range input {
		c += 0.3
		input[i] = 2*c - c*c
	}

	return input
}

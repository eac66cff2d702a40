// Package fft provides a forward real-to-complex fourier transform.
package fft

import "gonum.org/v1/gonum/dsp/fourier"

// Plan holds buffers and a transformer for a fixed transform size.
type Plan struct {
	Input  []float64
	Output []complex128
	fft    *fourier.FFT
}

// InitPlan points pointer at a new plan transforming input into output.
// len(output) must be len(input)/2+1.
func InitPlan(pointer **Plan, input []float64, output []complex128) {
	(*pointer) = &Plan{
		Input:  input,
		Output: output,
	}
}

// Execute runs the transform.
func (p *Plan) Execute() {
	if p.fft == nil {
		p.fft = fourier.NewFFT(len(p.Input))
	}
	p.fft.Coefficients(p.Output, p.Input)
}

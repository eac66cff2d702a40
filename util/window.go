// Package util provides small helpers shared across the pipeline.
package util

// MovingWindow keeps a running mean over the last capacity values.
type MovingWindow struct {
	values []float64
	next   int
	length int
	sum    float64
}

// NewMovingWindow returns a moving window over size values.
func NewMovingWindow(size int) *MovingWindow {
	return &MovingWindow{
		values: make([]float64, size),
	}
}

// Update pushes a value, evicting the oldest when full, and returns
// the new mean.
func (mw *MovingWindow) Update(value float64) float64 {
	if mw.length == len(mw.values) {
		mw.sum -= mw.values[mw.next]
	} else {
		mw.length++
	}

	mw.values[mw.next] = value
	mw.sum += value
	mw.next = (mw.next + 1) % len(mw.values)

	return mw.Mean()
}

// Len returns how many values the window currently holds.
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns the window capacity.
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}

// Mean returns the current average.
func (mw *MovingWindow) Mean() float64 {
	if mw.length == 0 {
		return 0
	}
	return mw.sum / float64(mw.length)
}

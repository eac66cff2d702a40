// Package input defines the sample source contract: sessions that
// produce mono samples at the target rate and push them, without
// blocking, toward the processing loop.
package input

import (
	"context"
	"fmt"
)

// Sample is the sample type produced by all sources.
type Sample = float64

// Chunk is an ordered run of mono samples at the target rate, tagged
// with its arrival sequence number.
type Chunk struct {
	Seq     uint64
	Samples []Sample
}

// Sink accepts chunks from a producer. Push must never block; it
// reports false when the chunk was dropped. The sink copies samples,
// so the caller may reuse the slice.
type Sink interface {
	Push(samples []Sample) bool
}

// Device identifies a capture device.
type Device interface {
	fmt.Stringer
}

// SessionConfig holds the parameters common to all sessions.
type SessionConfig struct {
	// Device to capture from. Nil for file sources.
	Device Device
	// SampleRate is the target rate; sources resample to it.
	SampleRate float64
	// ChunkSize is the number of samples per pushed chunk.
	ChunkSize int
	// Realtime paces file sources to wall-clock playback speed.
	Realtime bool
}

// Session is a running sample source. Start blocks until the source is
// exhausted, the context is canceled, or the source fails; it is the
// producer context of the pipeline.
type Session interface {
	Start(ctx context.Context, sink Sink) error
}

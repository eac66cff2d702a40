package processor

import (
	"sync/atomic"

	"github.com/noriah/sgram/input"
)

// Queue is the bounded, non-blocking hand-off between the capture
// context and the processing loop. A full queue drops the newest chunk
// instead of blocking the producer; blocking inside a capture callback
// causes audible glitches and can stall the pipeline. Drops are
// counted, not reported per occurrence.
type Queue struct {
	ch      chan input.Chunk
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewQueue returns a queue bounded to capacity chunks.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch: make(chan input.Chunk, capacity),
	}
}

// Push copies samples into a new chunk and enqueues it without
// blocking. It reports false when the queue was full and the chunk was
// dropped.
func (q *Queue) Push(samples []input.Sample) bool {
	chunk := input.Chunk{
		Seq:     q.seq.Add(1) - 1,
		Samples: append([]input.Sample(nil), samples...),
	}

	select {
	case q.ch <- chunk:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain hands every currently queued chunk to fn, oldest first, and
// returns how many were consumed. It never waits for more input.
func (q *Queue) Drain(fn func(input.Chunk)) int {
	count := 0
	for {
		select {
		case chunk := <-q.ch:
			fn(chunk)
			count++
		default:
			return count
		}
	}
}

// Dropped returns the non-decreasing count of dropped chunks.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

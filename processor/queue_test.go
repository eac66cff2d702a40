package processor

import (
	"testing"

	"github.com/noriah/sgram/input"
)

func TestQueueDropsNewestWhenFull(t *testing.T) {
	q := NewQueue(2)

	pushed := 0
	for i := 0; i < 5; i++ {
		if q.Push([]input.Sample{float64(i)}) {
			pushed++
		}
	}

	if pushed != 2 {
		t.Errorf("accepted %d pushes, want 2", pushed)
	}
	if got := q.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}

	// The retained chunks are the oldest ones, in order.
	var got []float64
	q.Drain(func(c input.Chunk) {
		got = append(got, c.Samples[0])
	})

	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("drained %v, want [0 1]", got)
	}
}

func TestQueueDrainNeverBlocks(t *testing.T) {
	q := NewQueue(4)

	if n := q.Drain(func(input.Chunk) {}); n != 0 {
		t.Errorf("drained %d chunks from empty queue", n)
	}
}

func TestQueuePushCopiesSamples(t *testing.T) {
	q := NewQueue(1)

	buf := []input.Sample{1, 2, 3}
	q.Push(buf)
	buf[0] = 99 // caller reuses its buffer

	q.Drain(func(c input.Chunk) {
		if c.Samples[0] != 1 {
			t.Errorf("queued chunk saw caller mutation: %v", c.Samples)
		}
	})
}

func TestQueueSequenceNumbers(t *testing.T) {
	q := NewQueue(8)

	for i := 0; i < 3; i++ {
		q.Push([]input.Sample{0})
	}

	var seqs []uint64
	q.Drain(func(c input.Chunk) {
		seqs = append(seqs, c.Seq)
	})

	for i, s := range seqs {
		if s != uint64(i) {
			t.Errorf("chunk %d has seq %d", i, s)
		}
	}
}

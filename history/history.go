// Package history is the append-only store of spectral rows, the single
// source of truth for both live rendering and export.
package history

import "github.com/pkg/errors"

// ErrIndexOutOfRange reports a row access outside the stored range.
var ErrIndexOutOfRange = errors.New("history: row index out of range")

// History holds every row produced during a session, in temporal order.
// Rows are never rewritten or evicted; row index equals append order.
// Append is called from the processing context only.
type History struct {
	rows [][]float64
	bins int
}

// New returns an empty history for rows of bins values each.
func New(bins int) *History {
	return &History{bins: bins}
}

// Append adds one immutable row. The history takes ownership of the
// slice; callers must not modify it afterwards.
func (h *History) Append(row []float64) {
	h.rows = append(h.rows, row)
}

// Len returns the number of stored rows.
func (h *History) Len() int {
	return len(h.rows)
}

// Bins returns the number of values per row.
func (h *History) Bins() int {
	return h.bins
}

// RowAt returns the row at index i, oldest first.
func (h *History) RowAt(i int) ([]float64, error) {
	if i < 0 || i >= len(h.rows) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d of %d", i, len(h.rows))
	}
	return h.rows[i], nil
}

// Snapshot returns a consistent view of the current rows. The snapshot
// is unaffected by later appends and safe to iterate while the writer
// keeps appending.
func (h *History) Snapshot() Snapshot {
	return Snapshot{
		rows: h.rows[:len(h.rows):len(h.rows)],
		bins: h.bins,
	}
}

// Snapshot is an immutable view over a prefix of the history.
type Snapshot struct {
	rows [][]float64
	bins int
}

// Len returns the number of rows in the snapshot.
func (s Snapshot) Len() int {
	return len(s.rows)
}

// Bins returns the number of values per row.
func (s Snapshot) Bins() int {
	return s.bins
}

// At returns the row at index i. It panics on out-of-range access;
// snapshot consumers iterate within [0, Len()).
func (s Snapshot) At(i int) []float64 {
	return s.rows[i]
}

// Tail returns a snapshot of at most the n most recent rows.
func (s Snapshot) Tail(n int) Snapshot {
	if n >= len(s.rows) {
		return s
	}
	return Snapshot{rows: s.rows[len(s.rows)-n:], bins: s.bins}
}

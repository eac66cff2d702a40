package graphic

import (
	"github.com/noriah/sgram/dsp"
	"github.com/noriah/sgram/history"
)

// Geometry is the destination grid size, in cells or pixels.
type Geometry struct {
	Width  int
	Height int
}

// Grid is a row-major grid of projected colors.
type Grid struct {
	Width  int
	Height int
	Cells  []RGB
}

// At returns the cell at column x, row y. Row 0 is the top.
func (g *Grid) At(x, y int) RGB {
	return g.Cells[y*g.Width+x]
}

func (g *Grid) set(x, y int, c RGB) {
	g.Cells[y*g.Width+x] = c
}

// Project maps a history snapshot through the view onto a destination
// grid. It is the single mapping shared by the live renderer and the
// image exporter: every destination cell aggregates (max) over its full
// source range of rows and bins, so no source row or bin is silently
// dropped at either edge.
//
// Horizontal style: time runs left to right (newest right), frequency
// bottom to top. Waterfall style: time runs top to bottom (newest top),
// frequency left to right.
func Project(snap history.Snapshot, view View, geom Geometry) *Grid {
	grid := &Grid{Width: geom.Width, Height: geom.Height}
	if geom.Width <= 0 || geom.Height <= 0 {
		return grid
	}
	grid.Cells = make([]RGB, geom.Width*geom.Height)

	var timeLen, freqLen int
	if view.Style == StyleWaterfall {
		timeLen, freqLen = geom.Height, geom.Width
	} else {
		timeLen, freqLen = geom.Width, geom.Height
	}

	pal := view.Palette()
	background := pal.At(0)
	for i := range grid.Cells {
		grid.Cells[i] = background
	}

	rows := snap.Len()
	if rows == 0 {
		return grid
	}

	mapper := dsp.NewMapper(view.Scale, view.Zoom, view.Rate, snap.Bins())
	span := view.DBCeiling - view.DBFloor
	if span < 1.0 {
		span = 1.0
	}

	fF := float64(freqLen)
	for t := 0; t < timeLen; t++ {
		rowLo, rowHi, ok := timeRange(t, timeLen, rows, view.Overview)
		if !ok {
			continue
		}

		for k := 0; k < freqLen; k++ {
			binLo, binHi := mapper.BinRange(float64(k)/fF, float64(k+1)/fF)

			db := view.DBFloor
			for r := rowLo; r < rowHi; r++ {
				row := snap.At(r)
				for b := binLo; b < binHi && b < len(row); b++ {
					if row[b] > db {
						db = row[b]
					}
				}
			}

			intensity := (db - view.DBFloor) / span
			if intensity < 0 {
				intensity = 0
			}
			if intensity > 1 {
				intensity = 1
			}

			var x, y int
			if view.Style == StyleWaterfall {
				// newest at the top
				x, y = k, timeLen-1-t
			} else {
				// low frequencies at the bottom
				x, y = t, freqLen-1-k
			}
			grid.set(x, y, pal.At(intensity))
		}
	}

	return grid
}

// timeRange maps destination time index t (chronological, 0 oldest) to
// the half-open source row range it covers. In overview mode the whole
// history is rescaled across the destination axis; otherwise only the
// most recent rows that fit are shown, one per destination cell, and
// earlier destination cells are empty.
func timeRange(t, timeLen, rows int, overview bool) (lo, hi int, ok bool) {
	if overview {
		lo = t * rows / timeLen
		hi = (t + 1) * rows / timeLen
		if hi <= lo {
			hi = lo + 1
		}
		if hi > rows {
			hi = rows
		}
		return lo, hi, lo < rows
	}

	visible := rows
	if visible > timeLen {
		visible = timeLen
	}

	// the last `visible` destination cells hold the newest rows
	offset := t - (timeLen - visible)
	if offset < 0 {
		return 0, 0, false
	}

	lo = rows - visible + offset
	return lo, lo + 1, true
}

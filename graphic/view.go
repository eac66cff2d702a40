package graphic

import "github.com/noriah/sgram/dsp"

// Style is the orientation of time vs frequency in the rendered grid.
type Style int

const (
	// StyleHorizontal maps time to the x axis and frequency to the y axis.
	StyleHorizontal Style = iota
	// StyleWaterfall maps time to the y axis and frequency to the x axis.
	StyleWaterfall
)

func (s Style) String() string {
	if s == StyleWaterfall {
		return "waterfall"
	}
	return "horizontal"
}

// Density is the sub-cell resolution packed per terminal character cell.
type Density int

const (
	// DensityCell renders one value per character cell.
	DensityCell Density = iota
	// DensityHalf renders two vertical sub-cells per character cell.
	DensityHalf
)

func (d Density) String() string {
	if d == DensityHalf {
		return "half"
	}
	return "cell"
}

// Display adjustment limits, matching the key bindings' step sizes.
const (
	MinZoom  = 1.0
	MaxZoom  = 64.0
	MinFloor = -140.0
	MaxFloor = -10.0
)

// View is the current display configuration. It is mutated only by the
// UI event handler; the processing context reads value copies.
type View struct {
	Style      Style
	Scale      dsp.Scale
	Density    Density
	Zoom       float64
	DBFloor    float64
	DBCeiling  float64
	PaletteIdx int
	Rate       float64 // target sample rate, fixed at startup
	Overview   bool
	Fullscreen bool
	Detailed   bool
	Paused     bool
}

// Palette returns the active palette.
func (v View) Palette() Palette {
	if v.PaletteIdx < 0 || v.PaletteIdx >= len(Palettes) {
		return Palettes[0]
	}
	return Palettes[v.PaletteIdx]
}

// AdjustZoom moves the zoom factor by delta within [MinZoom, MaxZoom].
func (v *View) AdjustZoom(delta float64) {
	v.Zoom += delta
	if v.Zoom < MinZoom {
		v.Zoom = MinZoom
	}
	if v.Zoom > MaxZoom {
		v.Zoom = MaxZoom
	}
}

// AdjustFloor moves the dB floor by delta within [MinFloor, MaxFloor].
func (v *View) AdjustFloor(delta float64) {
	v.DBFloor += delta
	if v.DBFloor < MinFloor {
		v.DBFloor = MinFloor
	}
	if v.DBFloor > MaxFloor {
		v.DBFloor = MaxFloor
	}
}

// ToggleStyle flips between horizontal and waterfall orientation.
func (v *View) ToggleStyle() {
	if v.Style == StyleHorizontal {
		v.Style = StyleWaterfall
	} else {
		v.Style = StyleHorizontal
	}
}

// NextPalette cycles the palette forward.
func (v *View) NextPalette() {
	v.PaletteIdx = (v.PaletteIdx + 1) % len(Palettes)
}

// PrevPalette cycles the palette backward.
func (v *View) PrevPalette() {
	v.PaletteIdx = (v.PaletteIdx - 1 + len(Palettes)) % len(Palettes)
}

// SubCells returns how many vertical sub-cells one character cell holds.
func (v View) SubCells() int {
	if v.Density == DensityHalf {
		return 2
	}
	return 1
}

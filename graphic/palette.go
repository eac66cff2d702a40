package graphic

// RGB is one palette color.
type RGB struct {
	R, G, B uint8
}

// Palette is an ordered list of colors. A normalized intensity in [0,1]
// selects a color by linear interpolation between evenly spaced stops.
type Palette struct {
	Name  string
	stops []RGB
}

// At returns the interpolated color for intensity t, clamped to [0,1].
func (p Palette) At(t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	if len(p.stops) == 1 {
		return p.stops[0]
	}

	pos := t * float64(len(p.stops)-1)
	i := int(pos)
	if i >= len(p.stops)-1 {
		return p.stops[len(p.stops)-1]
	}

	frac := pos - float64(i)
	a, b := p.stops[i], p.stops[i+1]

	return RGB{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// Palettes is the cycling order used by the palette keys.
var Palettes = []Palette{
	{Name: "grayscale", stops: []RGB{
		{0, 0, 0}, {255, 255, 255},
	}},
	{Name: "heat", stops: []RGB{
		{0, 0, 0}, {128, 16, 32}, {255, 64, 48}, {255, 160, 56}, {255, 255, 64},
	}},
	{Name: "viridis", stops: []RGB{
		{68, 1, 84}, {59, 82, 139}, {33, 145, 140}, {94, 201, 98}, {253, 231, 37},
	}},
	{Name: "jet", stops: []RGB{
		{0, 0, 143}, {0, 0, 255}, {0, 255, 255}, {255, 255, 0}, {255, 0, 0}, {128, 0, 0},
	}},
	{Name: "inferno", stops: []RGB{
		{0, 0, 4}, {87, 16, 110}, {188, 55, 84}, {249, 142, 9}, {252, 255, 164},
	}},
	{Name: "magma", stops: []RGB{
		{0, 0, 4}, {81, 18, 124}, {183, 55, 121}, {252, 137, 97}, {252, 253, 191},
	}},
	{Name: "plasma", stops: []RGB{
		{13, 8, 135}, {126, 3, 168}, {204, 71, 120}, {248, 149, 64}, {240, 249, 33},
	}},
	{Name: "purplefire", stops: []RGB{
		{0, 0, 0}, {12, 7, 42}, {60, 10, 90}, {120, 20, 120}, {200, 40, 60}, {255, 110, 10}, {255, 235, 90},
	}},
}

// PaletteByName returns the index of the named palette, or 0.
func PaletteByName(name string) int {
	for i, p := range Palettes {
		if p.Name == name {
			return i
		}
	}
	return 0
}

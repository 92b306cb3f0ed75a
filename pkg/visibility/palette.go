package visibility

import (
	"errors"
	"fmt"
)

// ErrPaletteExhausted is returned when a graph has more type labels than the
// palette has colours and large graphs are not allowed.
var ErrPaletteExhausted = errors.New("palette exhausted")

// Color is an RGB colour
type Color struct {
	R, G, B uint8
}

// CSS renders the colour as rgb(r,g,b)
func (c Color) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Fallback is shared by every label beyond the palette when large graphs are allowed
var Fallback = Color{255, 255, 255}

// DefaultPalette holds 30 visually distinct colours, ranked by pairwise distance
var DefaultPalette = []Color{
	{47, 79, 79},
	{85, 107, 47},
	{139, 69, 19},
	{34, 139, 34},
	{72, 61, 139},
	{184, 134, 11},
	{70, 130, 180},
	{0, 0, 128},
	{127, 0, 127},
	{143, 188, 143},
	{176, 48, 96},
	{255, 69, 0},
	{255, 255, 0},
	{0, 255, 0},
	{138, 43, 226},
	{0, 255, 127},
	{220, 20, 60},
	{0, 255, 255},
	{0, 0, 255},
	{173, 255, 47},
	{218, 112, 214},
	{255, 127, 80},
	{255, 0, 255},
	{30, 144, 255},
	{144, 238, 144},
	{173, 216, 230},
	{255, 20, 147},
	{123, 104, 238},
	{255, 222, 173},
	{255, 192, 203},
}

// ClassColor assigns a colour to a node class
type ClassColor struct {
	Class string
	Color Color
}

// AssignColors pairs each class with a palette colour in order. With more
// classes than colours it fails with ErrPaletteExhausted, or, when
// allowLarge is set, gives the excess classes the Fallback colour.
func AssignColors(classes []string, palette []Color, allowLarge bool) ([]ClassColor, error) {
	if excess := len(classes) - len(palette); excess > 0 && !allowLarge {
		return nil, fmt.Errorf("%w: %d labels, %d colours", ErrPaletteExhausted, len(classes), len(palette))
	}
	out := make([]ClassColor, len(classes))
	for i, class := range classes {
		c := Fallback
		if i < len(palette) {
			c = palette[i]
		}
		out[i] = ClassColor{Class: class, Color: c}
	}
	return out, nil
}

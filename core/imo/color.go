package imo

import (
	"fmt"
	"strconv"
)

// Color is an RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Black is the default color of every score object.
var Black = Color{0, 0, 0, 255}

// String returns the color as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". Malformed strings yield
// opaque black and false.
func ParseColor(s string) (Color, bool) {
	if len(s) != 7 && len(s) != 9 {
		return Black, false
	}
	if s[0] != '#' {
		return Black, false
	}
	var comps [4]uint8
	comps[3] = 255
	for i := 0; 1+2*i < len(s); i++ {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return Black, false
		}
		comps[i] = uint8(v)
	}
	return Color{comps[0], comps[1], comps[2], comps[3]}, true
}

// ColorDto carries a color read from source text together with its
// validity flag.
type ColorDto struct {
	simpleBase
	color Color
	ok    bool
}

// NewColorDto returns a dto holding black.
func NewColorDto() *ColorDto {
	d := &ColorDto{color: Black, ok: true}
	d.init(d, KindColorDto)
	return d
}

// SetFromString parses s into the dto and returns the resulting color.
func (d *ColorDto) SetFromString(s string) Color {
	d.color, d.ok = ParseColor(s)
	return d.color
}

// Color returns the held color.
func (d *ColorDto) Color() Color { return d.color }

// IsOK reports whether the last parsed string was valid.
func (d *ColorDto) IsOK() bool { return d.ok }

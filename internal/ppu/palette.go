package ppu

import (
	"image/color"
	"sort"
)

// Shades maps the four DMG shades (0 lightest .. 3 darkest) to output colors.
type Shades [4]color.RGBA

func gray(v byte) color.RGBA { return color.RGBA{v, v, v, 0xFF} }

// DefaultShades is the plain grayscale ramp.
var DefaultShades = Shades{gray(0xFF), gray(0xC0), gray(0x60), gray(0x00)}

var shadeSets = map[string]Shades{
	"gray": DefaultShades,
	"green": {
		{0x9B, 0xBC, 0x0F, 0xFF}, {0x8B, 0xAC, 0x0F, 0xFF},
		{0x30, 0x62, 0x30, 0xFF}, {0x0F, 0x38, 0x0F, 0xFF},
	},
	"sepia": {
		{0xFF, 0xF0, 0xD8, 0xFF}, {0xC8, 0xA8, 0x78, 0xFF},
		{0x80, 0x60, 0x38, 0xFF}, {0x30, 0x20, 0x10, 0xFF},
	},
	"blue": {
		{0xE8, 0xF0, 0xFF, 0xFF}, {0x88, 0xA8, 0xE8, 0xFF},
		{0x38, 0x58, 0xA8, 0xFF}, {0x08, 0x10, 0x40, 0xFF},
	},
	"red": {
		{0xFF, 0xE8, 0xE0, 0xFF}, {0xF0, 0x90, 0x78, 0xFF},
		{0xA8, 0x38, 0x28, 0xFF}, {0x38, 0x08, 0x08, 0xFF},
	},
	"pastel": {
		{0xFF, 0xF8, 0xF0, 0xFF}, {0xF0, 0xC8, 0xD8, 0xFF},
		{0xA0, 0x90, 0xC8, 0xFF}, {0x40, 0x38, 0x58, 0xFF},
	},
}

// ShadesByName returns a named shade set.
func ShadesByName(name string) (Shades, bool) {
	s, ok := shadeSets[name]
	return s, ok
}

// ShadeNames lists the available shade sets, sorted.
func ShadeNames() []string {
	names := make([]string, 0, len(shadeSets))
	for n := range shadeSets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// lookup maps a 2-bit color index through a palette register (BGP/OBP0/OBP1).
func (s *Shades) lookup(palette, ci byte) color.RGBA {
	return s[(palette>>(2*ci))&3]
}

package video

import (
	"fmt"
	"strings"

	"github.com/valerio/go-gbcore/gbcore/bit"
)

// Palette maps the four shades, lightest first, to display colors.
type Palette [4]GBColor

var (
	// GreyPalette renders shades as greys.
	GreyPalette = Palette{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}
	// GreenPalette approximates the green DMG LCD.
	GreenPalette = Palette{0xFF9BBC0F, 0xFF8BAC0F, 0xFF306230, 0xFF0F380F}
)

// ParsePalette returns the palette with the given name.
func ParsePalette(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "", "grey", "gray":
		return GreyPalette, nil
	case "green":
		return GreenPalette, nil
	}
	return Palette{}, fmt.Errorf("unknown palette %q", name)
}

// Shade maps a 2 bit color index through a palette register (BGP layout:
// bits 1-0 for index 0 up to bits 7-6 for index 3).
func Shade(register uint8, index int) int {
	low := uint8(index * 2)
	return int(bit.ExtractBits(register, low+1, low))
}

// Colors resolves the four color indices through register and the palette.
func (p Palette) Colors(register uint8) [4]GBColor {
	var colors [4]GBColor
	for i := range colors {
		colors[i] = p[Shade(register, i)]
	}
	return colors
}

package render

import "github.com/valerio/go-gbcore/gbcore/video"

// Shade levels, darkest first.
const (
	ShadeBlack = iota
	ShadeDark
	ShadeLight
	ShadeWhite
)

// PixelToShade buckets a packed ARGB pixel into one of four shades by its
// luma. Close colors can share a bucket; use a ShadeMap when the palette is
// known.
func PixelToShade(pixel uint32) int {
	r := (pixel >> 16) & 0xFF
	g := (pixel >> 8) & 0xFF
	b := pixel & 0xFF

	luma := (299*r + 587*g + 114*b) / 1000
	switch {
	case luma < 0x30:
		return ShadeBlack
	case luma < 0x78:
		return ShadeDark
	case luma < 0xC0:
		return ShadeLight
	default:
		return ShadeWhite
	}
}

// ShadeMap assigns each color of a palette the shade of its position, so
// every palette gets four distinct terminal colors.
type ShadeMap map[uint32]int

func NewShadeMap(palette video.Palette) ShadeMap {
	m := make(ShadeMap, len(palette))
	for i, color := range palette {
		if _, ok := m[uint32(color)]; !ok {
			m[uint32(color)] = ShadeWhite - i
		}
	}
	return m
}

// Shade returns the shade of pixel. Colors outside the palette fall back
// to PixelToShade.
func (m ShadeMap) Shade(pixel uint32) int {
	if shade, ok := m[pixel]; ok {
		return shade
	}
	return PixelToShade(pixel)
}

// HalfBlock returns the glyph used to draw two vertically stacked pixels in
// one cell. The upper half block takes the top shade as foreground and the
// bottom shade as background.
func HalfBlock(top, bottom int) rune {
	if top == bottom {
		return '█'
	}
	return '▀'
}

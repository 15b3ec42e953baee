package video

import (
	"github.com/valerio/go-gbcore/gbcore/addr"
	"github.com/valerio/go-gbcore/gbcore/bit"
)

const (
	tileSize    = 16
	tilesPerRow = 32
)

// TileRow is one row of a tile pattern (8 pixels), stored as two bytes.
//
// The first byte of the pair supplies bit 1 of each pixel's color index and
// the second byte supplies bit 0, so a row stored as $FF,$00 is a row of
// index 2. Bit 7 of each byte is the leftmost pixel:
//
//	Bit:     7 6 5 4 3 2 1 0
//	Pixel:   0 1 2 3 4 5 6 7
type TileRow struct {
	First  byte
	Second byte
}

// GetPixel extracts a pixel color index (0-3) from the row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) int {
	bitIndex := uint8(7 - pixelX)
	return int(bit.Value(bitIndex, t.First)<<1 | bit.Value(bitIndex, t.Second))
}

// Tile is an 8x8 pattern, 16 bytes in VRAM.
type Tile struct {
	Rows [8]TileRow
}

// GetPixel returns the color index (0-3) for a pixel at (x, y).
func (t Tile) GetPixel(x, y int) int {
	return t.Rows[y].GetPixel(x)
}

// FetchTile decodes the 16 bytes at address.
func FetchTile(mem Memory, address uint16) Tile {
	var tile Tile
	for row := range tile.Rows {
		offset := address + uint16(row*2)
		tile.Rows[row] = TileRow{First: mem.Read(offset), Second: mem.Read(offset + 1)}
	}
	return tile
}

// tileAddress returns where a tile map entry points to. With LCDC bit 4
// set, indices are unsigned from 0x8000; otherwise they are signed around
// 0x9000.
func tileAddress(lcdc uint8, index uint8) uint16 {
	if bit.IsSet(4, lcdc) {
		return addr.TileData0 + uint16(index)*tileSize
	}
	return uint16(int32(addr.TileDataSigned) + int32(int8(index))*tileSize)
}

// tileMapAddress returns the background map selected by LCDC bit 3.
func tileMapAddress(lcdc uint8) uint16 {
	if bit.IsSet(3, lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

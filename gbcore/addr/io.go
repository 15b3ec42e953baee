package addr

// video registers
const (
	// LCDC is the LCD control register. Bit 7 enables the display, bit 4
	// selects the tile data area and bit 3 the background tile map.
	LCDC uint16 = 0xFF40
	// STAT is the LCD status register: mode in bits 0-1, coincidence in bit 2.
	STAT uint16 = 0xFF41
	// SCY is the background scroll Y register.
	SCY uint16 = 0xFF42
	// SCX is the background scroll X register.
	SCX uint16 = 0xFF43
	// LY is the current scanline.
	LY uint16 = 0xFF44
	// LYC is the scanline compare register.
	LYC uint16 = 0xFF45
	// DMA is the OAM transfer register. Stored, never acted upon.
	DMA uint16 = 0xFF46
	// BGP is the background palette register.
	BGP uint16 = 0xFF47
	// WY is the window Y position.
	WY uint16 = 0xFF4A
	// WX is the window X position.
	WX uint16 = 0xFF4B
)

// BOOT disables the boot overlay once written with a non-zero value.
const BOOT uint16 = 0xFF50

// HighPage is the base of the LDH and LD (C) addressing forms.
const HighPage uint16 = 0xFF00

// tile data and tile maps
const (
	// VRAMStart is the first byte of video memory.
	VRAMStart uint16 = 0x8000
	// VRAMEnd is the last byte of video memory.
	VRAMEnd uint16 = 0x9FFF

	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileDataSigned is the signed base: tile 0 in signed addressing mode.
	TileDataSigned uint16 = 0x9000

	// TileMap0 is background tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background tile map 1
	TileMap1 uint16 = 0x9C00
)

// BootSize is the size of the boot image mapped over the low addresses.
const BootSize = 0x100

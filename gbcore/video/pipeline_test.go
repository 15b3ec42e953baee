package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-gbcore/gbcore/addr"
	"github.com/valerio/go-gbcore/gbcore/memory"
)

// countingMemory counts reads so tests can tell whether tile data was fetched.
type countingMemory struct {
	*memory.MMU
	reads int
}

func (m *countingMemory) Read(address uint16) byte {
	m.reads++
	return m.MMU.Read(address)
}

func writeTile(mmu *memory.MMU, address uint16, row [2]byte) {
	for i := uint16(0); i < 8; i++ {
		mmu.Write(address+i*2, row[0])
		mmu.Write(address+i*2+1, row[1])
	}
}

func TestPipeline_decodesTileThroughIdentityPalette(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 0x8010, [2]byte{0xFF, 0x00})
	mmu.Write(addr.TileMap0, 0x01)

	tile := FetchTile(mmu, 0x8010)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, 2, tile.GetPixel(x, y))
		}
	}

	p := NewPipeline(GreyPalette)
	assert.True(t, p.Refresh(mmu))

	bg := p.Background()
	for y := uint(0); y < 8; y++ {
		for x := uint(0); x < 8; x++ {
			assert.Equal(t, uint32(DarkGreyColor), bg.GetPixel(x, y))
		}
	}
	assert.Equal(t, uint32(WhiteColor), bg.GetPixel(8, 0))
	assert.Equal(t, uint32(DarkGreyColor), p.Viewport().GetPixel(7, 7))
	assert.False(t, mmu.VRAMDirty())
	assert.False(t, mmu.ViewportDirty())
}

func TestPipeline_appliesBGP(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x91)
	// reversed: index 2 maps to shade 1
	mmu.Write(addr.BGP, 0x1B)
	writeTile(mmu, 0x8000, [2]byte{0xFF, 0x00})

	p := NewPipeline(GreyPalette)
	p.Refresh(mmu)

	assert.Equal(t, uint32(LightGreyColor), p.Background().GetPixel(0, 0))
	assert.Equal(t, uint32(LightGreyColor), p.Background().GetPixel(255, 255))
}

func TestPipeline_signedTileData(t *testing.T) {
	mmu := memory.New()
	// LCDC bit 4 clear: tile 0 lives at 0x9000, tile 0x80 at 0x8800
	mmu.Write(addr.LCDC, 0x81)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 0x9000, [2]byte{0xFF, 0xFF})
	writeTile(mmu, 0x8800, [2]byte{0x00, 0xFF})
	mmu.Write(addr.TileMap0+1, 0x80)

	p := NewPipeline(GreyPalette)
	p.Refresh(mmu)

	assert.Equal(t, uint32(BlackColor), p.Background().GetPixel(0, 0))
	assert.Equal(t, uint32(LightGreyColor), p.Background().GetPixel(8, 0))
}

func TestPipeline_tileMapSelect(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x99)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 0x8010, [2]byte{0xFF, 0xFF})
	mmu.Write(addr.TileMap0, 0x01)
	mmu.Write(addr.TileMap1+32, 0x01)

	p := NewPipeline(GreyPalette)
	p.Refresh(mmu)

	assert.Equal(t, uint32(WhiteColor), p.Background().GetPixel(0, 0))
	assert.Equal(t, uint32(BlackColor), p.Background().GetPixel(0, 8))
}

func TestPipeline_viewportWrapsAround(t *testing.T) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x91)
	mmu.Write(addr.BGP, 0xE4)
	writeTile(mmu, 0x8010, [2]byte{0xFF, 0xFF})
	mmu.Write(addr.TileMap0, 0x01)
	mmu.Write(addr.SCX, 252)
	mmu.Write(addr.SCY, 252)

	p := NewPipeline(GreyPalette)
	p.Refresh(mmu)

	vp := p.Viewport()
	assert.Equal(t, uint(FramebufferWidth), vp.Width())
	assert.Equal(t, uint(FramebufferHeight), vp.Height())
	assert.Equal(t, uint32(WhiteColor), vp.GetPixel(0, 0))
	assert.Equal(t, uint32(BlackColor), vp.GetPixel(4, 4))
	assert.Equal(t, uint32(BlackColor), vp.GetPixel(11, 11))
	assert.Equal(t, uint32(WhiteColor), vp.GetPixel(12, 12))
}

func TestPipeline_dirtyFlags(t *testing.T) {
	mem := &countingMemory{MMU: memory.New()}
	mem.Write(addr.LCDC, 0x91)
	p := NewPipeline(GreyPalette)

	assert.True(t, p.Refresh(mem), "first refresh draws everything")
	assert.False(t, p.Refresh(mem), "nothing changed")

	mem.reads = 0
	mem.Write(addr.SCX, 3)
	assert.True(t, p.Refresh(mem))
	assert.Equal(t, 2, mem.reads, "only the scroll registers are read")
	assert.False(t, mem.ViewportDirty())

	mem.reads = 0
	mem.Write(0x8000, 0xFF)
	assert.True(t, p.Refresh(mem))
	assert.Greater(t, mem.reads, 256*16)
	assert.False(t, mem.VRAMDirty())
	assert.False(t, mem.ViewportDirty())
}

func TestTileAddress(t *testing.T) {
	testCases := []struct {
		desc  string
		lcdc  uint8
		index uint8
		want  uint16
	}{
		{desc: "unsigned first", lcdc: 0x10, index: 0, want: 0x8000},
		{desc: "unsigned last", lcdc: 0x10, index: 255, want: 0x8FF0},
		{desc: "signed zero", lcdc: 0x00, index: 0, want: 0x9000},
		{desc: "signed positive", lcdc: 0x00, index: 127, want: 0x97F0},
		{desc: "signed negative", lcdc: 0x00, index: 0x80, want: 0x8800},
		{desc: "signed minus one", lcdc: 0x00, index: 0xFF, want: 0x8FF0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, tileAddress(tC.lcdc, tC.index))
		})
	}
}

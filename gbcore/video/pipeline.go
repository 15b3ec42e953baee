package video

import "github.com/valerio/go-gbcore/gbcore/addr"

// VideoMemory is the store the pipeline renders from.
type VideoMemory interface {
	Memory
	VRAMDirty() bool
	ClearVRAMDirty()
	ViewportDirty() bool
	ClearViewportDirty()
}

// Pipeline turns tile data into the background and viewport buffers.
// Both buffers are rebuilt in full, never patched.
type Pipeline struct {
	palette    Palette
	background *FrameBuffer
	viewport   *FrameBuffer
}

func NewPipeline(palette Palette) *Pipeline {
	p := &Pipeline{
		palette:    palette,
		background: NewFrameBuffer(BackgroundWidth, BackgroundHeight),
		viewport:   NewFrameBuffer(FramebufferWidth, FramebufferHeight),
	}
	p.background.Fill(palette[0])
	p.viewport.Fill(palette[0])
	return p
}

// Background returns the full 256x256 background.
func (p *Pipeline) Background() *FrameBuffer { return p.background }

// Viewport returns the visible 160x144 window into the background.
func (p *Pipeline) Viewport() *FrameBuffer { return p.viewport }

// Refresh rebuilds whatever the dirty flags say is stale and clears them.
// It reports whether the viewport was republished.
func (p *Pipeline) Refresh(mem VideoMemory) bool {
	rebuilt := false
	if mem.VRAMDirty() {
		p.drawBackground(mem)
		mem.ClearVRAMDirty()
		rebuilt = true
	}

	if !rebuilt && !mem.ViewportDirty() {
		return false
	}

	p.cropViewport(mem)
	mem.ClearViewportDirty()
	return true
}

func (p *Pipeline) drawBackground(mem Memory) {
	lcdc := mem.Read(addr.LCDC)
	colors := p.palette.Colors(mem.Read(addr.BGP))

	var tiles [256]Tile
	for i := range tiles {
		tiles[i] = FetchTile(mem, tileAddress(lcdc, uint8(i)))
	}

	mapBase := tileMapAddress(lcdc)
	for cell := 0; cell < tilesPerRow*tilesPerRow; cell++ {
		tile := tiles[mem.Read(mapBase+uint16(cell))]
		originX := uint(cell%tilesPerRow) * 8
		originY := uint(cell/tilesPerRow) * 8

		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				p.background.SetPixel(originX+uint(x), originY+uint(y), colors[tile.GetPixel(x, y)])
			}
		}
	}
}

func (p *Pipeline) cropViewport(mem Memory) {
	scx := uint(mem.Read(addr.SCX))
	scy := uint(mem.Read(addr.SCY))

	for y := uint(0); y < FramebufferHeight; y++ {
		for x := uint(0); x < FramebufferWidth; x++ {
			px := p.background.GetPixel((x+scx)%BackgroundWidth, (y+scy)%BackgroundHeight)
			p.viewport.SetPixel(x, y, GBColor(px))
		}
	}
}

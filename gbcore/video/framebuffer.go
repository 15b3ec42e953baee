package video

import (
	"encoding/binary"
	"image"

	"github.com/cespare/xxhash"
)

// GBColor is a packed ARGB color.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xFF989898
	DarkGreyColor  GBColor = 0xFF4C4C4C
	BlackColor     GBColor = 0xFF000000
)

const (
	// FramebufferWidth and FramebufferHeight are the visible screen size.
	FramebufferWidth  = 160
	FramebufferHeight = 144

	// BackgroundWidth and BackgroundHeight are the size of the full
	// background: a 32x32 grid of 8x8 tiles.
	BackgroundWidth  = 256
	BackgroundHeight = 256
)

type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height uint) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Fill sets every pixel to color.
func (fb *FrameBuffer) Fill(color GBColor) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

// Hash returns a digest of the pixel data, used to tell frames apart.
func (fb *FrameBuffer) Hash() uint64 {
	raw := make([]byte, len(fb.buffer)*4)
	for i, px := range fb.buffer {
		binary.LittleEndian.PutUint32(raw[i*4:], px)
	}
	return xxhash.Sum64(raw)
}

// Image converts the buffer to an RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.width), int(fb.height)))
	for i, px := range fb.buffer {
		img.Pix[i*4] = uint8(px >> 16)
		img.Pix[i*4+1] = uint8(px >> 8)
		img.Pix[i*4+2] = uint8(px)
		img.Pix[i*4+3] = uint8(px >> 24)
	}
	return img
}

package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-gbcore/gbcore/addr"
)

// ErrProgramTooLarge is returned when a program does not fit the address space.
var ErrProgramTooLarge = fmt.Errorf("program larger than %d bytes", Size)

// Size is the size of the address space.
const Size = 0x10000

// MMU is a flat 64K address space with an optional boot overlay on the first
// 256 bytes. It tracks whether video memory or the scroll registers changed
// since the display pipeline last looked.
type MMU struct {
	memory [Size]byte
	boot   []byte

	vramDirty     bool
	viewportDirty bool
}

// New creates an empty memory unit. Both dirty flags start set so that the
// first refresh draws the whole background.
func New() *MMU {
	return &MMU{
		vramDirty:     true,
		viewportDirty: true,
	}
}

// NewWithBoot creates a memory unit with a boot image mapped over 0x0000-0x00FF.
// The overlay is active until a non-zero value is written to addr.BOOT.
func NewWithBoot(boot []byte) (*MMU, error) {
	if len(boot) != addr.BootSize {
		return nil, fmt.Errorf("boot image must be %d bytes, got %d", addr.BootSize, len(boot))
	}

	mmu := New()
	mmu.boot = make([]byte, addr.BootSize)
	copy(mmu.boot, boot)

	return mmu, nil
}

// Load writes program bytes starting at address 0, going through Write so
// dirty tracking applies to anything that lands in VRAM.
func (m *MMU) Load(program []byte) error {
	if len(program) > Size {
		return ErrProgramTooLarge
	}

	for i, b := range program {
		m.Write(uint16(i), b)
	}

	slog.Debug("Program loaded", "size", len(program))
	return nil
}

// BootActive reports whether reads below 0x100 are served by the boot image.
func (m *MMU) BootActive() bool {
	return m.boot != nil && m.memory[addr.BOOT] == 0
}

// Read returns the byte at address.
func (m *MMU) Read(address uint16) byte {
	if address < addr.BootSize && m.BootActive() {
		return m.boot[address]
	}

	return m.memory[address]
}

// Write stores value at address and updates the dirty flags.
func (m *MMU) Write(address uint16, value byte) {
	m.memory[address] = value

	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		m.vramDirty = true
	case address == addr.LCDC || address == addr.BGP:
		m.vramDirty = true
	case address == addr.SCY || address == addr.SCX:
		m.viewportDirty = true
	}
}

// VRAMDirty reports whether the background must be rebuilt.
func (m *MMU) VRAMDirty() bool { return m.vramDirty }

// ClearVRAMDirty acknowledges a background rebuild.
func (m *MMU) ClearVRAMDirty() { m.vramDirty = false }

// ViewportDirty reports whether the viewport must be cropped again.
func (m *MMU) ViewportDirty() bool { return m.viewportDirty }

// ClearViewportDirty acknowledges a viewport crop.
func (m *MMU) ClearViewportDirty() { m.viewportDirty = false }

package video

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-gbcore/gbcore/addr"
	"github.com/valerio/go-gbcore/gbcore/bit"
)

// Memory is the register access the display needs.
type Memory interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Mode is the display mode, with the values STAT reports.
type Mode uint8

const (
	HBlank    Mode = 0
	VBlank    Mode = 1
	OAMSearch Mode = 2
	Transfer  Mode = 3
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "hblank"
	case VBlank:
		return "vblank"
	case OAMSearch:
		return "oam"
	case Transfer:
		return "transfer"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// mode clock thresholds, cumulative within a scanline
const (
	oamCycles      = 80
	transferCycles = 252
	scanlineCycles = 456
	vblankCycles   = 4560

	visibleLines = 144
	lastLine     = 153
)

// FrameCycles is the length of one display frame: the visible scanlines
// before the last one, then the last one running on through V-blank.
const FrameCycles = (visibleLines-1)*scanlineCycles + vblankCycles

// TimingError reports a mode clock that fits none of the display modes.
type TimingError struct {
	ModeClock int
	LY        uint8
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("video: unclassifiable mode clock %d at LY %d", e.ModeClock, e.LY)
}

// Timing drives the display mode and scanline counter from CPU cycles.
type Timing struct {
	mode   Mode
	clock  int
	frames uint64
}

func NewTiming() *Timing {
	return &Timing{mode: OAMSearch}
}

func (t *Timing) Mode() Mode { return t.mode }

// Clock returns the mode clock in cycles.
func (t *Timing) Clock() int { return t.clock }

// Frames returns how many times V-blank has been entered.
func (t *Timing) Frames() uint64 { return t.frames }

// Step advances the mode clock by cycles, updating LY and STAT. Nothing
// changes while the display is disabled (LCDC bit 7).
func (t *Timing) Step(cycles int, mem Memory) error {
	if !bit.IsSet(7, mem.Read(addr.LCDC)) {
		return nil
	}

	t.clock += cycles
	ly := mem.Read(addr.LY)

	if ly < visibleLines && t.clock >= scanlineCycles {
		ly++
		if ly < visibleLines {
			t.clock = 0
		}
	}

	previous := t.mode
	switch {
	case t.clock < 0:
		return &TimingError{ModeClock: t.clock, LY: ly}
	case t.clock <= oamCycles:
		t.mode = OAMSearch
	case t.clock <= transferCycles:
		t.mode = Transfer
	case t.clock <= scanlineCycles:
		t.mode = HBlank
	case t.clock <= vblankCycles:
		t.mode = VBlank
		ly = min(visibleLines+uint8((t.clock-scanlineCycles)/scanlineCycles), lastLine)
	default:
		t.mode = OAMSearch
		t.clock = 0
		ly = 0
	}

	if t.mode == VBlank && previous != VBlank {
		t.frames++
		slog.Debug("Entered vblank", "frame", t.frames)
	}

	mem.Write(addr.LY, ly)

	stat := mem.Read(addr.STAT) & 0xF8
	if ly == mem.Read(addr.LYC) {
		stat |= 0b100
	}
	mem.Write(addr.STAT, stat|uint8(t.mode))

	return nil
}

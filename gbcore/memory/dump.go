package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-gbcore/gbcore/addr"
)

// IOState is a copy of the video registers, taken for diagnostics.
type IOState struct {
	LCDC, STAT, SCY, SCX, LY, LYC, DMA, BGP, WY, WX uint8
	BootActive                                        bool
}

// DumpIO captures the video registers without side effects.
func (m *MMU) DumpIO() IOState {
	return IOState{
		LCDC:       m.memory[addr.LCDC],
		STAT:       m.memory[addr.STAT],
		SCY:        m.memory[addr.SCY],
		SCX:        m.memory[addr.SCX],
		LY:         m.memory[addr.LY],
		LYC:        m.memory[addr.LYC],
		DMA:        m.memory[addr.DMA],
		BGP:        m.memory[addr.BGP],
		WY:         m.memory[addr.WY],
		WX:         m.memory[addr.WX],
		BootActive: m.BootActive(),
	}
}

func (s IOState) String() string {
	return fmt.Sprintf("LCDC=%08b STAT=%08b SCY=%02X SCX=%02X LY=%02X LYC=%02X DMA=%02X BGP=%08b WY=%02X WX=%02X boot=%t",
		s.LCDC, s.STAT, s.SCY, s.SCX, s.LY, s.LYC, s.DMA, s.BGP, s.WY, s.WX, s.BootActive)
}

// LogValue renders the registers as a slog group.
func (s IOState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("lcdc", fmt.Sprintf("%08b", s.LCDC)),
		slog.String("stat", fmt.Sprintf("%08b", s.STAT)),
		slog.Int("scy", int(s.SCY)),
		slog.Int("scx", int(s.SCX)),
		slog.Int("ly", int(s.LY)),
		slog.Int("lyc", int(s.LYC)),
		slog.String("bgp", fmt.Sprintf("%08b", s.BGP)),
		slog.Bool("boot", s.BootActive),
	)
}

package cpu

import (
	"fmt"
	"log/slog"
)

// Snapshot is a copy of the CPU registers.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Cycles                 uint64
}

// Snapshot copies the current register state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP:     c.sp,
		PC:     c.pc,
		IME:    c.interruptsEnabled,
		Cycles: c.cycles,
	}
}

// Flags returns the flag register as ZNHC, with '-' for clear flags.
func (s Snapshot) Flags() string {
	out := []byte("----")
	for i, f := range []struct {
		flag Flag
		name byte
	}{{zeroFlag, 'Z'}, {subFlag, 'N'}, {halfCarryFlag, 'H'}, {carryFlag, 'C'}} {
		if s.F&uint8(f.flag) != 0 {
			out[i] = f.name
		}
	}
	return string(out)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X SP=%04X PC=%04X %s IME=%t",
		s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.SP, s.PC, s.Flags(), s.IME)
}

// LogValue renders the registers as a slog group.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("af", fmt.Sprintf("%02X%02X", s.A, s.F)),
		slog.String("bc", fmt.Sprintf("%02X%02X", s.B, s.C)),
		slog.String("de", fmt.Sprintf("%02X%02X", s.D, s.E)),
		slog.String("hl", fmt.Sprintf("%02X%02X", s.H, s.L)),
		slog.String("sp", fmt.Sprintf("%04X", s.SP)),
		slog.String("pc", fmt.Sprintf("%04X", s.PC)),
		slog.String("flags", s.Flags()),
		slog.Bool("ime", s.IME),
		slog.Uint64("cycles", s.Cycles),
	)
}

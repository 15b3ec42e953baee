package gbcore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-gbcore/gbcore/addr"
	"github.com/valerio/go-gbcore/gbcore/backend"
	"github.com/valerio/go-gbcore/gbcore/bit"
	"github.com/valerio/go-gbcore/gbcore/cpu"
	"github.com/valerio/go-gbcore/gbcore/debug"
	"github.com/valerio/go-gbcore/gbcore/input/action"
	"github.com/valerio/go-gbcore/gbcore/memory"
	"github.com/valerio/go-gbcore/gbcore/timing"
	"github.com/valerio/go-gbcore/gbcore/video"
)

// disassemblyLines is how many instructions State decodes from PC.
const disassemblyLines = 9

// Config holds the options of a DMG.
type Config struct {
	// BootROM is an optional 256 byte image mapped over 0x0000-0x00FF
	// until the program writes to 0xFF50.
	BootROM []byte
	// Trace logs every executed instruction at debug level.
	Trace bool
	// Palette maps shades to colors. The zero value selects GreyPalette.
	Palette video.Palette

	SnapshotDir   string
	SnapshotScale int
}

// DMG owns the CPU, the display timing, the pixel pipeline and memory, and
// passes memory into each of them on every step.
type DMG struct {
	cpu      *cpu.CPU
	lcd      *video.Timing
	pipeline *video.Pipeline
	mem      *memory.MMU
	config   Config

	instructions uint64
	paused       bool
	stepFrame    bool
}

// New creates a DMG with empty memory.
func New(config Config) (*DMG, error) {
	mem := memory.New()
	if config.BootROM != nil {
		var err error
		mem, err = memory.NewWithBoot(config.BootROM)
		if err != nil {
			return nil, err
		}
	}

	palette := config.Palette
	if palette == (video.Palette{}) {
		palette = video.GreyPalette
	}

	return &DMG{
		cpu:      cpu.New(),
		lcd:      video.NewTiming(),
		pipeline: video.NewPipeline(palette),
		mem:      mem,
		config:   config,
	}, nil
}

// NewWithProgram creates a DMG and loads program at address 0.
func NewWithProgram(program []byte, config Config) (*DMG, error) {
	d, err := New(config)
	if err != nil {
		return nil, err
	}
	if err := d.mem.Load(program); err != nil {
		return nil, err
	}

	slog.Info("Loaded program", "bytes", len(program), "boot", d.mem.BootActive())
	return d, nil
}

// Step executes one instruction, advances the display by its cycles and
// refreshes the pipeline during OAM search while the display is on. It
// returns the cycles charged.
func (d *DMG) Step() (int, error) {
	if d.config.Trace {
		d.trace()
	}

	cycles, err := d.cpu.Step(d.mem)
	if err != nil {
		return 0, d.fail(err)
	}
	d.instructions++

	if err := d.lcd.Step(cycles, d.mem); err != nil {
		return cycles, d.fail(err)
	}

	if d.lcd.Mode() == video.OAMSearch && bit.IsSet(7, d.mem.Read(addr.LCDC)) {
		d.pipeline.Refresh(d.mem)
	}

	return cycles, nil
}

// RunUntilFrame steps until the display enters V-blank again. While the
// display is off it stops after video.FrameCycles instead.
func (d *DMG) RunUntilFrame() error {
	start := d.lcd.Frames()
	total := 0
	for d.lcd.Frames() == start {
		if total >= video.FrameCycles && !bit.IsSet(7, d.mem.Read(addr.LCDC)) {
			return nil
		}
		cycles, err := d.Step()
		if err != nil {
			return err
		}
		total += cycles
	}
	return nil
}

// Frame returns the 160x144 viewport.
func (d *DMG) Frame() *video.FrameBuffer { return d.pipeline.Viewport() }

// Background returns the full 256x256 background.
func (d *DMG) Background() *video.FrameBuffer { return d.pipeline.Background() }

// Instructions returns how many instructions were executed.
func (d *DMG) Instructions() uint64 { return d.instructions }

// Frames returns how many frames the display completed.
func (d *DMG) Frames() uint64 { return d.lcd.Frames() }

// Memory gives access to the address space, for loading and inspection.
func (d *DMG) Memory() *memory.MMU { return d.mem }

// Paused reports whether Run is holding emulation.
func (d *DMG) Paused() bool { return d.paused }

// State captures everything the debug views show.
func (d *DMG) State() *debug.State {
	regs := d.cpu.Snapshot()
	return &debug.State{
		CPU:          regs,
		IO:           d.mem.DumpIO(),
		Mode:         d.lcd.Mode(),
		Frames:       d.lcd.Frames(),
		Instructions: d.instructions,
		Paused:       d.paused,
		Disassembly:  debug.Disassemble(d.mem, regs.PC, disassemblyLines),
	}
}

// Run drives emulation frame by frame, presenting each frame to b and
// reacting to the actions it returns, until b asks to quit, an error occurs
// or ctx is done. A nil limiter runs unpaced.
func (d *DMG) Run(ctx context.Context, b backend.Backend, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	defer limiter.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !d.paused || d.stepFrame {
			if err := d.RunUntilFrame(); err != nil {
				return err
			}
			d.stepFrame = false
		}

		events, err := b.Update(d.Frame(), d.State())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}

		for _, ev := range events {
			if quit := d.handleAction(ev.Action, limiter); quit {
				return nil
			}
		}

		limiter.WaitForNextFrame()
	}
}

func (d *DMG) handleAction(act action.Action, limiter timing.Limiter) bool {
	switch act {
	case action.EmulatorQuit:
		slog.Info("Quit requested", "frames", d.lcd.Frames(), "instructions", d.instructions)
		return true
	case action.EmulatorPauseToggle:
		d.paused = !d.paused
		if !d.paused {
			limiter.Reset()
		}
		slog.Info("Pause toggled", "paused", d.paused)
	case action.EmulatorStepFrame:
		d.paused = true
		d.stepFrame = true
		slog.Debug("Stepping one frame", "frame", d.lcd.Frames())
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(d.Frame(), d.config.SnapshotDir, d.config.SnapshotScale)
	}
	return false
}

func (d *DMG) trace() {
	pc := d.cpu.PC()
	in, err := cpu.Decode(pc, d.mem)
	if err != nil {
		return
	}
	slog.Debug("exec", "pc", fmt.Sprintf("%04X", pc), "op", in.String(), "cpu", d.cpu.Snapshot())
}

func (d *DMG) fail(err error) error {
	return &DiagnosticError{
		Err:          err,
		IO:           d.mem.DumpIO(),
		Mode:         d.lcd.Mode(),
		Instructions: d.instructions,
	}
}

// DiagnosticError wraps a fatal CPU or display error with the state of the
// video registers when it happened.
type DiagnosticError struct {
	Err          error
	IO           memory.IOState
	Mode         video.Mode
	Instructions uint64
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("emulation stopped after %d instructions: %v", e.Instructions, e.Err)
}

func (e *DiagnosticError) Unwrap() error { return e.Err }

// LogValue groups the diagnostics for slog.
func (e *DiagnosticError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Err.Error()),
		slog.Uint64("instructions", e.Instructions),
		slog.String("mode", e.Mode.String()),
		slog.Any("io", e.IO),
	)
}

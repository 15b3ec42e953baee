package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-gbcore/gbcore"
	"github.com/valerio/go-gbcore/gbcore/backend"
	"github.com/valerio/go-gbcore/gbcore/backend/headless"
	"github.com/valerio/go-gbcore/gbcore/backend/terminal"
	"github.com/valerio/go-gbcore/gbcore/romfile"
	"github.com/valerio/go-gbcore/gbcore/timing"
	"github.com/valerio/go-gbcore/gbcore/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Description = "A Game Boy CPU, display timing and background renderer"
	app.Usage = "gbcore [options] <program file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the program file (.gb, .gz, .zip or .7z)",
		},
		cli.StringFlag{
			Name:  "boot",
			Usage: "Path to a 256 byte boot image mapped over 0x0000-0x00FF",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory for snapshots (default: temp directory in headless mode, working directory otherwise)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Upscaling factor for PNG snapshots",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "palette",
			Usage: "Display palette: grey or green",
			Value: "grey",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: ticker (real time) or none",
			Value: "ticker",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction at debug level",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the register and disassembly panels on start",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		var diag *gbcore.DiagnosticError
		if errors.As(err, &diag) {
			slog.Error("Emulation stopped", "diagnostics", diag)
		} else {
			slog.Error("Error running emulator", "error", err)
		}
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no program path provided")
		}
		romPath = c.Args().Get(0)
	}

	config, err := dmgConfig(c)
	if err != nil {
		return err
	}

	program, err := romfile.Load(romPath)
	if err != nil {
		return err
	}

	emu, err := gbcore.NewWithProgram(program, config)
	if err != nil {
		return err
	}

	b, limiter, err := createBackend(c, romPath)
	if err != nil {
		return err
	}

	backendConfig := backend.Config{
		Title:     filepath.Base(romPath),
		Scale:     c.Int("scale"),
		ShowDebug: c.Bool("debug"),
		Palette:   config.Palette,
	}
	if err := b.Init(backendConfig); err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = emu.Run(ctx, b, limiter)
	if errors.Is(err, context.Canceled) {
		slog.Info("Interrupted", "frames", emu.Frames(), "instructions", emu.Instructions())
		return nil
	}
	return err
}

func dmgConfig(c *cli.Context) (gbcore.Config, error) {
	palette, err := video.ParsePalette(c.String("palette"))
	if err != nil {
		return gbcore.Config{}, err
	}

	config := gbcore.Config{
		Trace:         c.Bool("trace"),
		Palette:       palette,
		SnapshotDir:   c.String("snapshot-dir"),
		SnapshotScale: c.Int("scale"),
	}

	if path := c.String("boot"); path != "" {
		boot, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read boot image: %w", err)
		}
		config.BootROM = boot
	}

	return config, nil
}

func createBackend(c *cli.Context, romPath string) (backend.Backend, timing.Limiter, error) {
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}

		level := slog.LevelInfo
		if c.Bool("trace") {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))

		return headless.New(frames, snapshotConfig), timing.NewNoOpLimiter(), nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, nil, errors.New("stdout is not a terminal, use --headless")
	}

	limiter, err := timing.New(c.String("limiter"))
	if err != nil {
		return nil, nil, err
	}

	return terminal.New(), limiter, nil
}

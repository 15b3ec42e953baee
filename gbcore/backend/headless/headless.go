package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-gbcore/gbcore/backend"
	"github.com/valerio/go-gbcore/gbcore/debug"
	"github.com/valerio/go-gbcore/gbcore/input/action"
	"github.com/valerio/go-gbcore/gbcore/video"
)

// Backend runs a fixed number of frames without any output other than
// logs and optional PNG snapshots.
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig

	lastHash     uint64
	uniqueFrames int
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.Config) error {
	if h.maxFrames <= 0 {
		return fmt.Errorf("headless mode needs a positive frame count, got %d", h.maxFrames)
	}
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts the frame, saves snapshots when due and asks to quit once
// the frame budget is spent.
func (h *Backend) Update(frame *video.FrameBuffer, state *debug.State) ([]backend.InputEvent, error) {
	h.frameCount++

	hash := frame.Hash()
	if hash != h.lastHash || h.frameCount == 1 {
		h.uniqueFrames++
		h.lastHash = hash
	}
	slog.Debug("Frame", "n", h.frameCount, "hash", fmt.Sprintf("%016x", hash))

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%10 == 0 {
		attrs := []any{"completed", h.frameCount, "total", h.maxFrames}
		if state != nil {
			attrs = append(attrs, "pc", fmt.Sprintf("%04X", state.CPU.PC), "instructions", state.Instructions)
		}
		slog.Info("Frame progress", attrs...)
	}

	if h.frameCount < h.maxFrames {
		return nil, nil
	}

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		h.saveSnapshot(frame)
	}

	slog.Info("Headless execution completed",
		"frames", h.maxFrames,
		"distinct_frames", h.uniqueFrames,
		"last_hash", fmt.Sprintf("%016x", h.lastHash),
		"snapshots", h.snapshotConfig.Directory)

	return []backend.InputEvent{{Action: action.EmulatorQuit}}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns how many frames were presented.
func (h *Backend) Frames() int { return h.frameCount }

// DistinctFrames returns how many presented frames differed from the one before.
func (h *Backend) DistinctFrames() int { return h.uniqueFrames }

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "gbcore-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)

	if _, err := debug.SaveFramePNG(frame, name, h.snapshotConfig.Directory, h.config.Scale); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
	}
}

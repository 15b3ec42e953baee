package backend

import (
	"github.com/valerio/go-gbcore/gbcore/debug"
	"github.com/valerio/go-gbcore/gbcore/input/action"
	"github.com/valerio/go-gbcore/gbcore/video"
)

// Backend presents frames to the host and reports host input.
// Backends are responsible for:
// - Rendering the viewport to their output (terminal, files, nothing)
// - Translating platform input to Actions
// - Optional debug views built from the emulator State
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config Config) error

	// Update presents a frame and returns the actions raised since the
	// previous call.
	Update(frame *video.FrameBuffer, state *debug.State) ([]InputEvent, error)

	// Cleanup releases the backend's resources.
	Cleanup() error
}

// Config holds configuration shared by all backends.
type Config struct {
	Title     string
	Scale     int  // Snapshot upscaling factor
	ShowDebug bool // Backends may ignore unsupported features
	// Palette is the one the frames are rendered with. The zero value
	// means GreyPalette.
	Palette video.Palette
}

// InputEvent is an action raised by the host.
type InputEvent struct {
	Action action.Action
}

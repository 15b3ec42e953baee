package debug

import (
	"github.com/valerio/go-gbcore/gbcore/cpu"
	"github.com/valerio/go-gbcore/gbcore/memory"
	"github.com/valerio/go-gbcore/gbcore/video"
)

// State is what the debug panels show about the emulator between frames.
type State struct {
	CPU          cpu.Snapshot
	IO           memory.IOState
	Mode         video.Mode
	Frames       uint64
	Instructions uint64
	Paused       bool
	Disassembly  []Line
}

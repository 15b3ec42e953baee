package action

// Action is a host-side request to the driver loop.
type Action int

const (
	EmulatorQuit Action = iota
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorSnapshot
	EmulatorDebugToggle
)

func (a Action) String() string {
	switch a {
	case EmulatorQuit:
		return "quit"
	case EmulatorPauseToggle:
		return "pause"
	case EmulatorStepFrame:
		return "step-frame"
	case EmulatorSnapshot:
		return "snapshot"
	case EmulatorDebugToggle:
		return "debug"
	}
	return "unknown"
}

package cpu

import "fmt"

// FaultKind classifies a fatal CPU error.
type FaultKind uint8

const (
	// KindUnknownOpcode means the first opcode byte is not modeled.
	KindUnknownOpcode FaultKind = iota + 1
	// KindUnknownPrefixedOpcode means the byte after 0xCB is not modeled.
	KindUnknownPrefixedOpcode
	// KindUnknownInstruction means a decoded instruction has no execution path.
	KindUnknownInstruction
)

func (k FaultKind) String() string {
	switch k {
	case KindUnknownOpcode:
		return "unknown opcode"
	case KindUnknownPrefixedOpcode:
		return "unknown 0xCB opcode"
	case KindUnknownInstruction:
		return "unknown instruction"
	}
	return fmt.Sprintf("FaultKind(%d)", uint8(k))
}

// FatalError stops emulation. It carries the faulting opcode and, once it
// leaves CPU.Step, a copy of the registers at the time of the fault.
type FatalError struct {
	Kind      FaultKind
	Opcode    uint16
	PC        uint16
	Registers *Snapshot
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("cpu: %s 0x%02X at 0x%04X", e.Kind, e.Opcode, e.PC)
	if e.Kind == KindUnknownPrefixedOpcode {
		msg = fmt.Sprintf("cpu: %s 0x%04X at 0x%04X", e.Kind, e.Opcode, e.PC)
	}
	if e.Registers != nil {
		msg += " [" + e.Registers.String() + "]"
	}
	return msg
}

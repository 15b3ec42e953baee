package cpu

import "errors"

// CPU holds the register state of the processor. It does not keep a
// reference to memory: every step is given the bus to run against.
type CPU struct {
	// registers
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// metadata
	interruptsEnabled bool
	cycles            uint64
}

// New returns a CPU with every register cleared, as it is at power on
// before the boot image runs.
func New() *CPU {
	return &CPU{}
}

// Step decodes and executes the instruction at PC. It returns the cycles
// taken, or a *FatalError carrying a register snapshot.
func (c *CPU) Step(bus Bus) (int, error) {
	in, err := Decode(c.pc, bus)
	if err == nil {
		var cycles int
		cycles, err = c.Execute(in, bus)
		if err == nil {
			return cycles, nil
		}
	}

	var fatal *FatalError
	if errors.As(err, &fatal) && fatal.Registers == nil {
		snapshot := c.Snapshot()
		fatal.Registers = &snapshot
	}

	return 0, err
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Cycles returns the elapsed clock cycles (T-cycles).
func (c *CPU) Cycles() uint64 { return c.cycles }

// MachineCycles returns the elapsed machine cycles, four clock cycles each.
func (c *CPU) MachineCycles() uint64 { return c.cycles / 4 }

// IME returns the interrupt master enable latch.
func (c *CPU) IME() bool { return c.interruptsEnabled }

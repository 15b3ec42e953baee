package debug

import (
	"fmt"

	"github.com/valerio/go-gbcore/gbcore/cpu"
)

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Text    string
	Current bool
}

func (l Line) String() string {
	marker := " "
	if l.Current {
		marker = ">"
	}
	return fmt.Sprintf("%s%04X  %s", marker, l.Address, l.Text)
}

// Disassemble decodes up to count instructions starting at pc. Decoding
// stops at the first opcode that is not modeled, which is shown as data.
func Disassemble(bus cpu.Reader, pc uint16, count int) []Line {
	lines := make([]Line, 0, count)
	address := pc

	for len(lines) < count {
		in, err := cpu.Decode(address, bus)
		if err != nil {
			lines = append(lines, Line{Address: address, Text: fmt.Sprintf("DB $%02X", bus.Read(address)), Current: address == pc})
			break
		}

		lines = append(lines, Line{Address: address, Text: in.String(), Current: address == pc})
		address += in.Length()
	}

	return lines
}

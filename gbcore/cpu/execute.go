package cpu

import (
	"fmt"

	"github.com/valerio/go-gbcore/gbcore/addr"
)

// Execute applies a decoded instruction, advancing PC and the cycle
// counter. It returns the clock cycles the instruction took.
func (c *CPU) Execute(in Instruction, bus Bus) (int, error) {
	cycles, ok := c.execute(in, bus)
	if !ok {
		return 0, &FatalError{Kind: KindUnknownInstruction, Opcode: in.Opcode, PC: c.pc}
	}

	c.cycles += uint64(cycles)
	return cycles, nil
}

// advance moves PC past the instruction and reports its cost.
func (c *CPU) advance(in Instruction, cycles int) (int, bool) {
	c.pc += in.Length()
	return cycles, true
}

// memoryCost is the extra cost of an operand that needs a bus access.
func memoryCost(r Register) int {
	if r == RegHLIndirect || r == RegImmediate {
		return 4
	}
	return 0
}

func (c *CPU) read8(r Register, in Instruction, bus Bus) uint8 {
	switch r {
	case RegHLIndirect:
		return bus.Read(c.getHL())
	case RegImmediate:
		return in.Imm8
	}
	return *c.reg(r)
}

func (c *CPU) write8(r Register, value uint8, bus Bus) {
	switch r {
	case RegHLIndirect:
		bus.Write(c.getHL(), value)
	case RegImmediate:
		panic(fmt.Sprintf("cpu: cannot write to immediate operand at 0x%04X", c.pc))
	default:
		*c.reg(r) = value
	}
}

func (c *CPU) execute(in Instruction, bus Bus) (int, bool) {
	switch in.Op {
	case OpNop:
		return c.advance(in, 4)
	case OpDI:
		c.interruptsEnabled = false
		return c.advance(in, 4)
	case OpEI:
		c.interruptsEnabled = true
		return c.advance(in, 4)

	case OpLoad8:
		c.write8(in.Dst, c.read8(in.Src, in, bus), bus)
		return c.advance(in, 4+memoryCost(in.Dst)+memoryCost(in.Src))
	case OpLoad16:
		c.setPair(in.Pair, in.Imm16)
		return c.advance(in, 12)
	case OpLoadAIndirect:
		c.a = bus.Read(c.pair(in.Pair))
		return c.advance(in, 8)
	case OpStoreAIndirect:
		bus.Write(c.pair(in.Pair), c.a)
		return c.advance(in, 8)
	case OpLoadAInc:
		hl := c.getHL()
		c.a = bus.Read(hl)
		c.setHL(hl + 1)
		return c.advance(in, 8)
	case OpLoadADec:
		hl := c.getHL()
		c.a = bus.Read(hl)
		c.setHL(hl - 1)
		return c.advance(in, 8)
	case OpStoreAInc:
		hl := c.getHL()
		bus.Write(hl, c.a)
		c.setHL(hl + 1)
		return c.advance(in, 8)
	case OpStoreADec:
		hl := c.getHL()
		bus.Write(hl, c.a)
		c.setHL(hl - 1)
		return c.advance(in, 8)
	case OpLoadAAbs:
		c.a = bus.Read(in.Imm16)
		return c.advance(in, 16)
	case OpStoreAAbs:
		bus.Write(in.Imm16, c.a)
		return c.advance(in, 16)
	case OpLoadAHigh:
		c.a = bus.Read(addr.HighPage + uint16(in.Imm8))
		return c.advance(in, 12)
	case OpStoreAHigh:
		bus.Write(addr.HighPage+uint16(in.Imm8), c.a)
		return c.advance(in, 12)
	case OpLoadAHighC:
		c.a = bus.Read(addr.HighPage + uint16(c.c))
		return c.advance(in, 8)
	case OpStoreAHighC:
		bus.Write(addr.HighPage+uint16(c.c), c.a)
		return c.advance(in, 8)

	case OpInc8:
		c.write8(in.Dst, c.add8(c.read8(in.Dst, in, bus), 1), bus)
		return c.advance(in, 4+2*memoryCost(in.Dst))
	case OpDec8:
		c.write8(in.Dst, c.sub8(c.read8(in.Dst, in, bus), 1), bus)
		return c.advance(in, 4+2*memoryCost(in.Dst))
	case OpInc16:
		c.setPair(in.Pair, c.pair(in.Pair)+1)
		return c.advance(in, 8)
	case OpDec16:
		c.setPair(in.Pair, c.pair(in.Pair)-1)
		return c.advance(in, 8)
	case OpAdd:
		c.addToA(c.read8(in.Src, in, bus))
		return c.advance(in, 4+memoryCost(in.Src))
	case OpSub:
		c.subFromA(c.read8(in.Src, in, bus), true)
		return c.advance(in, 4+memoryCost(in.Src))
	case OpXor:
		c.xorA(c.read8(in.Src, in, bus))
		return c.advance(in, 4+memoryCost(in.Src))
	case OpCp:
		c.subFromA(c.read8(in.Src, in, bus), false)
		return c.advance(in, 4+memoryCost(in.Src))
	case OpRLA:
		c.a = c.rl(c.a)
		return c.advance(in, 4)

	case OpJR:
		next := c.pc + in.Length()
		if !c.holds(in.Cond) {
			c.pc = next
			return 8, true
		}
		c.pc = next + uint16(int16(int8(in.Imm8)))
		return 12, true
	case OpJP:
		if !c.holds(in.Cond) {
			return c.advance(in, 12)
		}
		c.pc = in.Imm16
		return 16, true
	case OpCall:
		next := c.pc + in.Length()
		if !c.holds(in.Cond) {
			c.pc = next
			return 12, true
		}
		c.pushStack(bus, next)
		c.pc = in.Imm16
		return 24, true
	case OpRet:
		if in.Cond == CondAlways {
			c.pc = c.popStack(bus)
			return 16, true
		}
		if !c.holds(in.Cond) {
			return c.advance(in, 8)
		}
		c.pc = c.popStack(bus)
		return 20, true
	case OpPush:
		c.pushStack(bus, c.pair(in.Pair))
		return c.advance(in, 16)
	case OpPop:
		c.setPair(in.Pair, c.popStack(bus))
		return c.advance(in, 12)

	case OpRL:
		c.write8(in.Dst, c.rl(c.read8(in.Dst, in, bus)), bus)
		return c.advance(in, 8+2*memoryCost(in.Dst))
	case OpBit:
		c.bitTest(c.read8(in.Src, in, bus), 1<<in.Bit)
		return c.advance(in, 8+memoryCost(in.Src))
	}

	return 0, false
}

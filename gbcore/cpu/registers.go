package cpu

import (
	"fmt"

	"github.com/valerio/go-gbcore/gbcore/bit"
)

// Register names an 8 bit operand: one of the seven general registers, the
// byte addressed by HL, or the immediate byte following the opcode.
// The first eight values follow the order used by the opcode encoding.
type Register uint8

const (
	RegB Register = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLIndirect
	RegA
	RegImmediate
)

var registerNames = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A", "n"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// Pair names a 16 bit register pair.
type Pair uint8

const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairSP
	PairAF
)

var pairNames = [...]string{"BC", "DE", "HL", "SP", "AF"}

func (p Pair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return fmt.Sprintf("Pair(%d)", uint8(p))
}

// Condition is the flag test of a conditional jump, call or return.
type Condition uint8

const (
	CondAlways Condition = iota
	CondNZ
	CondZ
	CondNC
	CondC
)

var conditionNames = [...]string{"", "NZ", "Z", "NC", "C"}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// reg maps a general register to its storage. RegHLIndirect and
// RegImmediate have no storage and must be resolved by the caller.
func (c *CPU) reg(r Register) *uint8 {
	switch r {
	case RegA:
		return &c.a
	case RegB:
		return &c.b
	case RegC:
		return &c.c
	case RegD:
		return &c.d
	case RegE:
		return &c.e
	case RegH:
		return &c.h
	case RegL:
		return &c.l
	}
	panic(fmt.Sprintf("cpu: %s has no register storage", r))
}

func (c *CPU) pair(p Pair) uint16 {
	switch p {
	case PairBC:
		return c.getBC()
	case PairDE:
		return c.getDE()
	case PairHL:
		return c.getHL()
	case PairSP:
		return c.sp
	case PairAF:
		return c.getAF()
	}
	panic(fmt.Sprintf("cpu: unknown pair %s", p))
}

func (c *CPU) setPair(p Pair, value uint16) {
	switch p {
	case PairBC:
		c.setBC(value)
	case PairDE:
		c.setDE(value)
	case PairHL:
		c.setHL(value)
	case PairSP:
		c.sp = value
	case PairAF:
		c.setAF(value)
	default:
		panic(fmt.Sprintf("cpu: unknown pair %s", p))
	}
}

// holds reports whether the flags satisfy cond.
func (c *CPU) holds(cond Condition) bool {
	switch cond {
	case CondNZ:
		return !c.isSetFlag(zeroFlag)
	case CondZ:
		return c.isSetFlag(zeroFlag)
	case CondNC:
		return !c.isSetFlag(carryFlag)
	case CondC:
		return c.isSetFlag(carryFlag)
	}
	return true
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}

	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if !condition {
		c.resetFlag(flag)
		return
	}

	c.setFlag(flag)
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	// F register lower 4 bits must be 0
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

package cpu

import "github.com/valerio/go-gbcore/gbcore/bit"

// halfCarryAdd8 reports a carry out of bit 3 when adding b to a.
func halfCarryAdd8(a, b uint8) bool {
	return (a&0xF)+(b&0xF) > 0xF
}

// halfCarrySub8 reports a borrow from bit 4 when subtracting b from a.
func halfCarrySub8(a, b uint8) bool {
	return a&0xF < b&0xF
}

// halfCarryAdd16 reports a carry out of bit 11 when adding b to a.
func halfCarryAdd16(a, b uint16) bool {
	return (a&0xFFF)+(b&0xFFF) > 0xFFF
}

// halfCarrySub16 reports a borrow from bit 12 when subtracting b from a.
func halfCarrySub16(a, b uint16) bool {
	return a&0xFFF < b&0xFFF
}

// add8 returns a+b and sets Z, N and H. Carry is left alone.
func (c *CPU) add8(a, b uint8) uint8 {
	result := a + b

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarryAdd8(a, b))

	return result
}

// sub8 returns a-b and sets Z, N and H. Carry is left alone.
func (c *CPU) sub8(a, b uint8) uint8 {
	result := a - b

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarrySub8(a, b))

	return result
}

// addToA adds value to A, setting all flags.
func (c *CPU) addToA(value uint8) {
	_, carry := bit.CheckedAdd(c.a, value)
	c.a = c.add8(c.a, value)
	c.setFlagToCondition(carryFlag, carry)
}

// subFromA subtracts value from A, setting all flags. With store false
// only the flags change, which is how CP works.
func (c *CPU) subFromA(value uint8, store bool) {
	_, borrow := bit.CheckedSub(c.a, value)
	result := c.sub8(c.a, value)
	c.setFlagToCondition(carryFlag, borrow)

	if store {
		c.a = result
	}
}

// xorA sets A to A^value. Only Z can end up set.
func (c *CPU) xorA(value uint8) {
	c.a ^= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// rl rotates value left through the carry flag: bit 7 goes to carry and
// the previous carry goes to bit 0.
func (c *CPU) rl(value uint8) uint8 {
	carry := c.flagToBit(carryFlag)
	result := value<<1 | carry

	c.setFlagToCondition(carryFlag, value&0x80 != 0)
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)

	return result
}

// bitTest sets Z when any bit of mask is clear in value. Carry is left alone.
func (c *CPU) bitTest(value, mask uint8) {
	c.setFlagToCondition(zeroFlag, value&mask != mask)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// pushStack writes value below SP, high byte first, leaving SP on the low byte.
func (c *CPU) pushStack(bus Bus, value uint16) {
	c.sp--
	bus.Write(c.sp, uint8(value>>8))
	c.sp--
	bus.Write(c.sp, uint8(value))
}

// popStack reads the word at SP, low byte first, and moves SP past it.
func (c *CPU) popStack(bus Bus) uint16 {
	low := bus.Read(c.sp)
	c.sp++
	high := bus.Read(c.sp)
	c.sp++

	return uint16(high)<<8 | uint16(low)
}

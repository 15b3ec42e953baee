package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-gbcore/gbcore/memory"
)

func newTestCPU(t *testing.T, program ...byte) (*CPU, *memory.MMU) {
	t.Helper()

	mmu := memory.New()
	require.NoError(t, mmu.Load(program))

	return New(), mmu
}

func TestCPU_cycles(t *testing.T) {
	testCases := []struct {
		desc    string
		program []byte
		setup   func(c *CPU, mmu *memory.MMU)
		cycles  int
		pc      uint16
	}{
		{desc: "nop", program: []byte{0x00}, cycles: 4, pc: 1},
		{desc: "di", program: []byte{0xF3}, cycles: 4, pc: 1},
		{desc: "ld bc,nn", program: []byte{0x01, 0x34, 0x12}, cycles: 12, pc: 3},
		{desc: "ld b,n", program: []byte{0x06, 0x42}, cycles: 8, pc: 2},
		{desc: "ld (hl),n", program: []byte{0x36, 0x42}, cycles: 12, pc: 2},
		{desc: "ld b,c", program: []byte{0x41}, cycles: 4, pc: 1},
		{desc: "ld b,(hl)", program: []byte{0x46}, cycles: 8, pc: 1},
		{desc: "ld (hl),b", program: []byte{0x70}, cycles: 8, pc: 1},
		{desc: "ld a,(de)", program: []byte{0x1A}, cycles: 8, pc: 1},
		{desc: "ldi (hl),a", program: []byte{0x22}, cycles: 8, pc: 1},
		{desc: "ld (nn),a", program: []byte{0xEA, 0x00, 0xC0}, cycles: 16, pc: 3},
		{desc: "ldh (n),a", program: []byte{0xE0, 0x80}, cycles: 12, pc: 2},
		{desc: "ld (c),a", program: []byte{0xE2}, cycles: 8, pc: 1},
		{desc: "inc b", program: []byte{0x04}, cycles: 4, pc: 1},
		{desc: "inc (hl)", program: []byte{0x34}, cycles: 12, pc: 1},
		{desc: "inc bc", program: []byte{0x03}, cycles: 8, pc: 1},
		{desc: "dec (hl)", program: []byte{0x35}, cycles: 12, pc: 1},
		{desc: "add a,b", program: []byte{0x80}, cycles: 4, pc: 1},
		{desc: "sub n", program: []byte{0xD6, 0x01}, cycles: 8, pc: 2},
		{desc: "xor b", program: []byte{0xA8}, cycles: 4, pc: 1},
		{desc: "xor (hl)", program: []byte{0xAE}, cycles: 8, pc: 1},
		{desc: "xor n", program: []byte{0xEE, 0x01}, cycles: 8, pc: 2},
		{desc: "cp (hl)", program: []byte{0xBE}, cycles: 8, pc: 1},
		{desc: "cp n", program: []byte{0xFE, 0x01}, cycles: 8, pc: 2},
		{desc: "rla", program: []byte{0x17}, cycles: 4, pc: 1},
		{desc: "jp nn", program: []byte{0xC3, 0x00, 0x10}, cycles: 16, pc: 0x1000},
		{
			desc: "jp nz not taken", program: []byte{0xC2, 0x00, 0x10},
			setup:  func(c *CPU, _ *memory.MMU) { c.setFlag(zeroFlag) },
			cycles: 12, pc: 3,
		},
		{desc: "call nn", program: []byte{0xCD, 0x00, 0x10}, cycles: 24, pc: 0x1000},
		{
			desc: "call nz not taken", program: []byte{0xC4, 0x00, 0x10},
			setup:  func(c *CPU, _ *memory.MMU) { c.setFlag(zeroFlag) },
			cycles: 12, pc: 3,
		},
		{
			desc: "call z taken", program: []byte{0xCC, 0x00, 0x10},
			setup:  func(c *CPU, _ *memory.MMU) { c.setFlag(zeroFlag) },
			cycles: 24, pc: 0x1000,
		},
		{
			desc: "ret", program: []byte{0xC9},
			setup:  func(c *CPU, mmu *memory.MMU) { c.pushStack(mmu, 0x1234) },
			cycles: 16, pc: 0x1234,
		},
		{
			desc: "ret z taken", program: []byte{0xC8},
			setup: func(c *CPU, mmu *memory.MMU) {
				c.pushStack(mmu, 0x1234)
				c.setFlag(zeroFlag)
			},
			cycles: 20, pc: 0x1234,
		},
		{desc: "ret z not taken", program: []byte{0xC8}, cycles: 8, pc: 1},
		{desc: "push bc", program: []byte{0xC5}, cycles: 16, pc: 1},
		{desc: "pop bc", program: []byte{0xC1}, cycles: 12, pc: 1},
		{desc: "rl b", program: []byte{0xCB, 0x10}, cycles: 8, pc: 2},
		{desc: "rl (hl)", program: []byte{0xCB, 0x16}, cycles: 16, pc: 2},
		{desc: "bit 7,h", program: []byte{0xCB, 0x7C}, cycles: 8, pc: 2},
		{desc: "bit 0,(hl)", program: []byte{0xCB, 0x46}, cycles: 12, pc: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, mmu := newTestCPU(t, tC.program...)
			cpu.sp = 0xFFFE
			cpu.setHL(0xC000)
			if tC.setup != nil {
				tC.setup(cpu, mmu)
			}

			in, err := Decode(0, mmu)
			require.NoError(t, err)
			assert.Equal(t, uint16(len(tC.program)), in.Length())

			cycles, err := cpu.Step(mmu)
			require.NoError(t, err)

			assert.Equal(t, tC.cycles, cycles)
			assert.Equal(t, tC.pc, cpu.pc)
			assert.Equal(t, uint64(tC.cycles), cpu.Cycles())
		})
	}
}

func TestCPU_jr(t *testing.T) {
	testCases := []struct {
		desc    string
		program []byte
		zero    bool
		cycles  int
		pc      uint16
	}{
		{desc: "zero displacement", program: []byte{0x18, 0x00}, cycles: 12, pc: 2},
		{desc: "forward", program: []byte{0x18, 0x05}, cycles: 12, pc: 7},
		{desc: "backward", program: []byte{0x18, 0xFE}, cycles: 12, pc: 0},
		{desc: "nz taken", program: []byte{0x20, 0x00}, cycles: 12, pc: 2},
		{desc: "nz not taken", program: []byte{0x20, 0x05}, zero: true, cycles: 8, pc: 2},
		{desc: "z taken", program: []byte{0x28, 0x05}, zero: true, cycles: 12, pc: 7},
		{desc: "z not taken with zero displacement", program: []byte{0x28, 0x00}, cycles: 8, pc: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, mmu := newTestCPU(t, tC.program...)
			cpu.setFlagToCondition(zeroFlag, tC.zero)

			cycles, err := cpu.Step(mmu)
			require.NoError(t, err)

			assert.Equal(t, tC.cycles, cycles)
			assert.Equal(t, tC.pc, cpu.pc)
		})
	}
}

func TestCPU_loadZeroThenXorSetsZero(t *testing.T) {
	// LD A,0; XOR A
	cpu, mmu := newTestCPU(t, 0x3E, 0x00, 0xAF)
	cpu.f = 0xF0

	_, err := cpu.Step(mmu)
	require.NoError(t, err)
	_, err = cpu.Step(mmu)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), cpu.a)
	assert.Equal(t, uint8(zeroFlag), cpu.f)
	assert.Equal(t, uint16(3), cpu.pc)
}

func TestCPU_pushPop(t *testing.T) {
	// PUSH BC; POP DE
	cpu, mmu := newTestCPU(t, 0xC5, 0xD1)
	cpu.sp = 0xFFFE
	cpu.setBC(0xBEEF)

	_, err := cpu.Step(mmu)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)
	assert.Equal(t, byte(0xEF), mmu.Read(0xFFFC))
	assert.Equal(t, byte(0xBE), mmu.Read(0xFFFD))

	_, err = cpu.Step(mmu)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), cpu.getDE())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestCPU_popAFMasksFlags(t *testing.T) {
	// POP AF
	cpu, mmu := newTestCPU(t, 0xF1)
	cpu.sp = 0xC000
	mmu.Write(0xC000, 0xFF)
	mmu.Write(0xC001, 0x12)

	_, err := cpu.Step(mmu)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x12), cpu.a)
	assert.Equal(t, uint8(0xF0), cpu.f)
}

func TestCPU_callRet(t *testing.T) {
	cpu, mmu := newTestCPU(t, 0xCD, 0x00, 0x10)
	mmu.Write(0x1000, 0xC9)
	cpu.sp = 0xFFFE

	_, err := cpu.Step(mmu)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1000), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	_, err = cpu.Step(mmu)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0003), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
	assert.Equal(t, uint64(40), cpu.Cycles())
	assert.Equal(t, uint64(10), cpu.MachineCycles())
}

func TestCPU_memoryOperands(t *testing.T) {
	t.Run("inc (hl) wraps the byte only", func(t *testing.T) {
		cpu, mmu := newTestCPU(t, 0x34)
		cpu.setHL(0xC000)
		mmu.Write(0xC000, 0xFF)
		mmu.Write(0xC001, 0x07)

		_, err := cpu.Step(mmu)
		require.NoError(t, err)

		assert.Equal(t, byte(0x00), mmu.Read(0xC000))
		assert.Equal(t, byte(0x07), mmu.Read(0xC001))
		assert.Equal(t, uint16(0xC000), cpu.getHL())
		assert.True(t, cpu.isSetFlag(zeroFlag))
	})

	t.Run("ldi and ldd write back hl", func(t *testing.T) {
		// LDI (HL),A; LDD A,(HL)
		cpu, mmu := newTestCPU(t, 0x22, 0x3A)
		cpu.setHL(0xC000)
		cpu.a = 0x55
		mmu.Write(0xC001, 0x66)

		_, err := cpu.Step(mmu)
		require.NoError(t, err)
		assert.Equal(t, byte(0x55), mmu.Read(0xC000))
		assert.Equal(t, uint16(0xC001), cpu.getHL())

		_, err = cpu.Step(mmu)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x66), cpu.a)
		assert.Equal(t, uint16(0xC000), cpu.getHL())
	})

	t.Run("high page loads", func(t *testing.T) {
		// LDH (0x80),A; LD (C),A; LDH A,(0x81)
		cpu, mmu := newTestCPU(t, 0xE0, 0x80, 0xE2, 0xF0, 0x81)
		cpu.a = 0x99
		cpu.c = 0x81

		for i := 0; i < 2; i++ {
			_, err := cpu.Step(mmu)
			require.NoError(t, err)
		}
		assert.Equal(t, byte(0x99), mmu.Read(0xFF80))
		assert.Equal(t, byte(0x99), mmu.Read(0xFF81))

		cpu.a = 0
		_, err := cpu.Step(mmu)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x99), cpu.a)
	})

	t.Run("rl (hl)", func(t *testing.T) {
		cpu, mmu := newTestCPU(t, 0xCB, 0x16)
		cpu.setHL(0xC000)
		cpu.setFlag(carryFlag)
		mmu.Write(0xC000, 0x80)

		_, err := cpu.Step(mmu)
		require.NoError(t, err)

		assert.Equal(t, byte(0x01), mmu.Read(0xC000))
		assert.True(t, cpu.isSetFlag(carryFlag))
	})
}

func TestCPU_interruptLatch(t *testing.T) {
	// EI; DI
	cpu, mmu := newTestCPU(t, 0xFB, 0xF3)

	_, err := cpu.Step(mmu)
	require.NoError(t, err)
	assert.True(t, cpu.IME())

	_, err = cpu.Step(mmu)
	require.NoError(t, err)
	assert.False(t, cpu.IME())
}

func TestCPU_clearVRAMLoop(t *testing.T) {
	program := []byte{
		0x31, 0xFE, 0xFF, // LD SP,$FFFE
		0xAF,             // XOR A
		0x21, 0xFF, 0x9F, // LD HL,$9FFF
		0x32,             // LD (HL-),A
		0xCB, 0x7C,       // BIT 7,H
		0x20, 0xFB,       // JR NZ,-5
	}
	cpu, mmu := newTestCPU(t, program...)
	for address := 0x8000; address <= 0x9FFF; address++ {
		mmu.Write(uint16(address), 0xFF)
	}

	for steps := 0; cpu.pc != uint16(len(program)); steps++ {
		require.Less(t, steps, 100000, "loop did not terminate")
		_, err := cpu.Step(mmu)
		require.NoError(t, err)
	}

	for address := 0x8000; address <= 0x9FFF; address++ {
		require.Equal(t, byte(0), mmu.Read(uint16(address)), "address 0x%04X", address)
	}
	assert.Equal(t, uint16(0x7FFF), cpu.getHL())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestCPU_stepFatal(t *testing.T) {
	testCases := []struct {
		desc    string
		program []byte
		kind    FaultKind
		opcode  uint16
	}{
		{desc: "unknown opcode", program: []byte{0xD3}, kind: KindUnknownOpcode, opcode: 0xD3},
		{desc: "halt", program: []byte{0x76}, kind: KindUnknownOpcode, opcode: 0x76},
		{desc: "unknown prefixed opcode", program: []byte{0xCB, 0x00}, kind: KindUnknownPrefixedOpcode, opcode: 0xCB00},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, mmu := newTestCPU(t, tC.program...)
			cpu.a = 0x42

			cycles, err := cpu.Step(mmu)
			require.Error(t, err)
			assert.Equal(t, 0, cycles)

			var fatal *FatalError
			require.True(t, errors.As(err, &fatal))
			assert.Equal(t, tC.kind, fatal.Kind)
			assert.Equal(t, tC.opcode, fatal.Opcode)
			require.NotNil(t, fatal.Registers)
			assert.Equal(t, uint8(0x42), fatal.Registers.A)
			assert.Equal(t, uint16(0), fatal.Registers.PC)
			assert.Equal(t, uint16(0), cpu.pc)
		})
	}
}

func TestCPU_executeUnknownInstruction(t *testing.T) {
	cpu, mmu := newTestCPU(t)

	cycles, err := cpu.Execute(Instruction{Op: OpInvalid, Opcode: 0xD3}, mmu)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, KindUnknownInstruction, fatal.Kind)
	assert.Equal(t, 0, cycles)
	assert.Equal(t, uint64(0), cpu.Cycles())
	assert.Contains(t, err.Error(), "unknown instruction")
}

func TestSnapshot(t *testing.T) {
	cpu := New()
	cpu.setAF(0x12B0)
	cpu.sp = 0xFFFE
	cpu.pc = 0x0100

	snapshot := cpu.Snapshot()

	assert.Equal(t, "Z-HC", snapshot.Flags())
	assert.Equal(t, "AF=12B0 BC=0000 DE=0000 HL=0000 SP=FFFE PC=0100 Z-HC IME=false", snapshot.String())
}

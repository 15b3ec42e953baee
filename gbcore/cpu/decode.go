package cpu

import "github.com/valerio/go-gbcore/gbcore/bit"

// Reader is the read side of the address space.
type Reader interface {
	Read(address uint16) byte
}

// Bus is the address space the CPU executes against.
type Bus interface {
	Reader
	Write(address uint16, value byte)
}

var (
	// operand order of LD rr,nn and INC/DEC rr
	loadPairs = [4]Pair{PairBC, PairDE, PairHL, PairSP}
	// operand order of PUSH and POP
	stackPairs = [4]Pair{PairBC, PairDE, PairHL, PairAF}
	// condition order of JP, CALL and RET; JR uses the same order offset by 4
	conditions = [4]Condition{CondNZ, CondZ, CondNC, CondC}
)

// Decode reads the instruction at pc. The bytes following the opcode are
// always read and stored as immediates, little-endian for 16 bit values.
// Opcodes that are not modeled produce a *FatalError.
func Decode(pc uint16, bus Reader) (Instruction, error) {
	opcode := bus.Read(pc)
	if opcode == 0xCB {
		return decodePrefixed(pc, bus)
	}

	in := Instruction{
		Opcode: uint16(opcode),
		Imm8:   bus.Read(pc + 1),
		Imm16:  bit.Combine(bus.Read(pc+2), bus.Read(pc+1)),
	}

	if !decodeBase(&in, opcode) {
		return Instruction{}, &FatalError{Kind: KindUnknownOpcode, Opcode: uint16(opcode), PC: pc}
	}

	return in, nil
}

func decodePrefixed(pc uint16, bus Reader) (Instruction, error) {
	opcode := bus.Read(pc + 1)

	in := Instruction{
		Opcode: 0xCB00 | uint16(opcode),
		Imm8:   bus.Read(pc + 2),
		Imm16:  bit.Combine(bus.Read(pc+3), bus.Read(pc+2)),
	}

	operand := Register(opcode & 7)

	switch {
	case opcode >= 0x10 && opcode <= 0x17:
		in.Op = OpRL
		in.Dst = operand
	case opcode >= 0x40 && opcode <= 0x7F:
		in.Op = OpBit
		in.Src = operand
		in.Bit = (opcode >> 3) & 7
	default:
		return Instruction{}, &FatalError{Kind: KindUnknownPrefixedOpcode, Opcode: in.Opcode, PC: pc}
	}

	return in, nil
}

// decodeBase fills in the operation and operands of an unprefixed opcode.
// The opcode is split in the usual fields: x (bits 7-6), y (bits 5-3) and
// z (bits 2-0), with y further split into p (bits 5-4) and q (bit 3).
func decodeBase(in *Instruction, opcode uint8) bool {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return decodeBlock0(in, opcode, y, z, p, q)
	case 1:
		// 0x76 would be LD (HL),(HL), which encodes HALT
		if opcode == 0x76 {
			return false
		}
		in.Op = OpLoad8
		in.Dst = Register(y)
		in.Src = Register(z)
		return true
	case 2:
		in.Src = Register(z)
		return decodeALU(in, y)
	}

	return decodeBlock3(in, opcode, y, p)
}

func decodeBlock0(in *Instruction, opcode, y, z, p, q uint8) bool {
	switch z {
	case 0:
		switch {
		case opcode == 0x00:
			in.Op = OpNop
		case opcode == 0x18:
			in.Op = OpJR
		case y >= 4:
			in.Op = OpJR
			in.Cond = conditions[y-4]
		default:
			return false
		}
	case 1:
		if q != 0 {
			return false
		}
		in.Op = OpLoad16
		in.Pair = loadPairs[p]
	case 2:
		switch opcode {
		case 0x02, 0x12:
			in.Op = OpStoreAIndirect
			in.Pair = loadPairs[p]
		case 0x0A, 0x1A:
			in.Op = OpLoadAIndirect
			in.Pair = loadPairs[p]
		case 0x22:
			in.Op = OpStoreAInc
		case 0x2A:
			in.Op = OpLoadAInc
		case 0x32:
			in.Op = OpStoreADec
		case 0x3A:
			in.Op = OpLoadADec
		}
	case 3:
		in.Op = OpInc16
		if q == 1 {
			in.Op = OpDec16
		}
		in.Pair = loadPairs[p]
	case 4:
		in.Op = OpInc8
		in.Dst = Register(y)
	case 5:
		in.Op = OpDec8
		in.Dst = Register(y)
	case 6:
		in.Op = OpLoad8
		in.Dst = Register(y)
		in.Src = RegImmediate
	case 7:
		if opcode != 0x17 {
			return false
		}
		in.Op = OpRLA
	}

	return in.Op != OpInvalid
}

func decodeALU(in *Instruction, y uint8) bool {
	switch y {
	case 0:
		in.Op = OpAdd
	case 2:
		in.Op = OpSub
	case 5:
		in.Op = OpXor
	case 7:
		in.Op = OpCp
	default:
		return false
	}
	return true
}

func decodeBlock3(in *Instruction, opcode, y, p uint8) bool {
	switch opcode {
	case 0xC3:
		in.Op = OpJP
	case 0xC2, 0xCA, 0xD2, 0xDA:
		in.Op = OpJP
		in.Cond = conditions[y]
	case 0xCD:
		in.Op = OpCall
	case 0xC4, 0xCC, 0xD4, 0xDC:
		in.Op = OpCall
		in.Cond = conditions[y]
	case 0xC9:
		in.Op = OpRet
	case 0xC0, 0xC8, 0xD0, 0xD8:
		in.Op = OpRet
		in.Cond = conditions[y]
	case 0xC1, 0xD1, 0xE1, 0xF1:
		in.Op = OpPop
		in.Pair = stackPairs[p]
	case 0xC5, 0xD5, 0xE5, 0xF5:
		in.Op = OpPush
		in.Pair = stackPairs[p]
	case 0xC6, 0xD6, 0xEE, 0xFE:
		in.Src = RegImmediate
		return decodeALU(in, y)
	case 0xE0:
		in.Op = OpStoreAHigh
	case 0xF0:
		in.Op = OpLoadAHigh
	case 0xE2:
		in.Op = OpStoreAHighC
	case 0xF2:
		in.Op = OpLoadAHighC
	case 0xEA:
		in.Op = OpStoreAAbs
	case 0xFA:
		in.Op = OpLoadAAbs
	case 0xF3:
		in.Op = OpDI
	case 0xFB:
		in.Op = OpEI
	default:
		return false
	}
	return true
}

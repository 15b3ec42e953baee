package cpu

import "fmt"

// Op identifies what an instruction does, independently of how it was encoded.
type Op uint8

const (
	OpInvalid Op = iota
	OpNop
	OpDI
	OpEI

	// loads
	OpLoad8          // LD Dst,Src (registers, (HL) or immediate)
	OpLoad16         // LD Pair,nn
	OpLoadAIndirect  // LD A,(Pair)
	OpStoreAIndirect // LD (Pair),A
	OpLoadAInc       // LDI A,(HL)
	OpLoadADec       // LDD A,(HL)
	OpStoreAInc      // LDI (HL),A
	OpStoreADec      // LDD (HL),A
	OpLoadAAbs       // LD A,(nn)
	OpStoreAAbs      // LD (nn),A
	OpLoadAHigh      // LDH A,(n)
	OpStoreAHigh     // LDH (n),A
	OpLoadAHighC     // LD A,(C)
	OpStoreAHighC    // LD (C),A

	// arithmetic and logic
	OpInc8
	OpDec8
	OpInc16
	OpDec16
	OpAdd
	OpSub
	OpXor
	OpCp
	OpRLA

	// control flow
	OpJR
	OpJP
	OpCall
	OpRet
	OpPush
	OpPop

	// 0xCB prefixed
	OpRL
	OpBit
)

// Instruction is a decoded instruction. Immediates are always extracted,
// whether or not the operation uses them.
type Instruction struct {
	Op   Op
	Dst  Register
	Src  Register
	Pair Pair
	Cond Condition
	Bit  uint8

	Imm8  uint8
	Imm16 uint16

	// Opcode is the raw encoding, 0xCBxx for prefixed instructions.
	// Only used for diagnostics.
	Opcode uint16
}

// Prefixed reports whether the instruction was encoded behind 0xCB.
func (in Instruction) Prefixed() bool {
	return in.Opcode&0xFF00 == 0xCB00
}

// Length returns the encoded size of the instruction in bytes.
func (in Instruction) Length() uint16 {
	if in.Prefixed() {
		return 2
	}

	switch in.Op {
	case OpLoad16, OpLoadAAbs, OpStoreAAbs, OpJP, OpCall:
		return 3
	case OpJR, OpLoadAHigh, OpStoreAHigh:
		return 2
	case OpLoad8, OpAdd, OpSub, OpXor, OpCp:
		if in.Src == RegImmediate {
			return 2
		}
	}
	return 1
}

func (in Instruction) operand(r Register) string {
	if r == RegImmediate {
		return fmt.Sprintf("$%02X", in.Imm8)
	}
	return r.String()
}

func (in Instruction) conditional(mnemonic, target string) string {
	if in.Cond == CondAlways {
		if target == "" {
			return mnemonic
		}
		return mnemonic + " " + target
	}
	if target == "" {
		return mnemonic + " " + in.Cond.String()
	}
	return fmt.Sprintf("%s %s,%s", mnemonic, in.Cond, target)
}

// String returns the instruction in assembler syntax.
func (in Instruction) String() string {
	switch in.Op {
	case OpNop:
		return "NOP"
	case OpDI:
		return "DI"
	case OpEI:
		return "EI"
	case OpLoad8:
		return fmt.Sprintf("LD %s,%s", in.Dst, in.operand(in.Src))
	case OpLoad16:
		return fmt.Sprintf("LD %s,$%04X", in.Pair, in.Imm16)
	case OpLoadAIndirect:
		return fmt.Sprintf("LD A,(%s)", in.Pair)
	case OpStoreAIndirect:
		return fmt.Sprintf("LD (%s),A", in.Pair)
	case OpLoadAInc:
		return "LD A,(HL+)"
	case OpLoadADec:
		return "LD A,(HL-)"
	case OpStoreAInc:
		return "LD (HL+),A"
	case OpStoreADec:
		return "LD (HL-),A"
	case OpLoadAAbs:
		return fmt.Sprintf("LD A,($%04X)", in.Imm16)
	case OpStoreAAbs:
		return fmt.Sprintf("LD ($%04X),A", in.Imm16)
	case OpLoadAHigh:
		return fmt.Sprintf("LDH A,($FF%02X)", in.Imm8)
	case OpStoreAHigh:
		return fmt.Sprintf("LDH ($FF%02X),A", in.Imm8)
	case OpLoadAHighC:
		return "LD A,($FF00+C)"
	case OpStoreAHighC:
		return "LD ($FF00+C),A"
	case OpInc8:
		return "INC " + in.Dst.String()
	case OpDec8:
		return "DEC " + in.Dst.String()
	case OpInc16:
		return "INC " + in.Pair.String()
	case OpDec16:
		return "DEC " + in.Pair.String()
	case OpAdd:
		return "ADD A," + in.operand(in.Src)
	case OpSub:
		return "SUB " + in.operand(in.Src)
	case OpXor:
		return "XOR " + in.operand(in.Src)
	case OpCp:
		return "CP " + in.operand(in.Src)
	case OpRLA:
		return "RLA"
	case OpJR:
		return in.conditional("JR", fmt.Sprintf("%+d", int8(in.Imm8)))
	case OpJP:
		return in.conditional("JP", fmt.Sprintf("$%04X", in.Imm16))
	case OpCall:
		return in.conditional("CALL", fmt.Sprintf("$%04X", in.Imm16))
	case OpRet:
		return in.conditional("RET", "")
	case OpPush:
		return "PUSH " + in.Pair.String()
	case OpPop:
		return "POP " + in.Pair.String()
	case OpRL:
		return "RL " + in.Dst.String()
	case OpBit:
		return fmt.Sprintf("BIT %d,%s", in.Bit, in.Src)
	}
	return fmt.Sprintf("DB $%04X", in.Opcode)
}

package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-gbcore/gbcore/memory"
)

func TestDisassemble(t *testing.T) {
	mmu := memory.New()
	require.NoError(t, mmu.Load([]byte{
		0x31, 0xFE, 0xFF, // LD SP,$FFFE
		0xAF,             // XOR A
		0x0E, 0x11,       // LD C,$11
		0xCB, 0x7C,       // BIT 7,H
		0x20, 0xFB,       // JR NZ,-5
		0x76,             // HALT
	}))

	lines := Disassemble(mmu, 0, 10)

	require.Len(t, lines, 6)
	assert.Equal(t, Line{Address: 0x0000, Text: "LD SP,$FFFE", Current: true}, lines[0])
	assert.Equal(t, Line{Address: 0x0003, Text: "XOR A"}, lines[1])
	assert.Equal(t, Line{Address: 0x0004, Text: "LD C,$11"}, lines[2])
	assert.Equal(t, Line{Address: 0x0006, Text: "BIT 7,H"}, lines[3])
	assert.Equal(t, Line{Address: 0x0008, Text: "JR NZ,-5"}, lines[4])
	assert.Equal(t, Line{Address: 0x000A, Text: "DB $76"}, lines[5])

	assert.Equal(t, ">0000  LD SP,$FFFE", lines[0].String())
	assert.Equal(t, " 0003  XOR A", lines[1].String())
}

func TestDisassemble_count(t *testing.T) {
	mmu := memory.New()

	lines := Disassemble(mmu, 0x0100, 4)

	require.Len(t, lines, 4)
	assert.Equal(t, uint16(0x0103), lines[3].Address)
	assert.Equal(t, "NOP", lines[3].Text)
}

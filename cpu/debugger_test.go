package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExecuteCommandBreakpointToggle exercises the B <hex> grammar: the
// first B sets a breakpoint, the second clears it.
func TestExecuteCommandBreakpointToggle(t *testing.T) {
	c := newTestCPU(t)

	resume, step := c.ExecuteCommand("B 0405")
	assert.False(t, resume)
	assert.False(t, step)
	assert.True(t, c.breakpoints[0x0405])

	c.ExecuteCommand("b 0405")
	assert.False(t, c.breakpoints[0x0405])
}

func TestExecuteCommandQHalts(t *testing.T) {
	c := newTestCPU(t)
	resume, _ := c.ExecuteCommand("q")
	assert.False(t, resume)
	assert.True(t, c.Halted())
}

func TestExecuteCommandSResumesSingleStep(t *testing.T) {
	c := newTestCPU(t)
	resume, step := c.ExecuteCommand("s")
	assert.True(t, resume)
	assert.True(t, step)
}

func TestExecuteCommandXResumesFree(t *testing.T) {
	c := newTestCPU(t)
	resume, step := c.ExecuteCommand("x")
	assert.True(t, resume)
	assert.False(t, step)
}

func TestExecuteCommandTTogglesTrapDetection(t *testing.T) {
	c := newTestCPU(t)
	assert.True(t, c.trapDetection)
	c.ExecuteCommand("t")
	assert.False(t, c.trapDetection)
	c.ExecuteCommand("T")
	assert.True(t, c.trapDetection)
}

func TestExecuteCommandHelpStaysPaused(t *testing.T) {
	c := newTestCPU(t)
	resume, step := c.ExecuteCommand("?")
	assert.False(t, resume)
	assert.False(t, step)
	assert.False(t, c.Halted())
}

func TestDumpMemoryFormatsSixteenBytes(t *testing.T) {
	c := newTestCPU(t)
	for i := uint16(0); i < 16; i++ {
		c.Write(0x0010+i, byte(i))
	}
	out := c.DumpMemory(0x0010)
	assert.True(t, strings.HasPrefix(out, "0010 | "))
	assert.Contains(t, out, "00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F")
}

// TestBreakpointHookFiresAtExactAddress is the spec's end-to-end debug
// scenario: install a hook, issue "B 0405" then "X" on first entry, and
// verify the hook re-enters exactly when PC reaches 0x0405, not before or
// after, against a program of five NOPs at 0x0400.
func TestBreakpointHookFiresAtExactAddress(t *testing.T) {
	c := newTestCPU(t)
	c.LoadProgram([]byte{0xea, 0xea, 0xea, 0xea, 0xea, 0x00}, 0x0400) // 5x NOP, BRK
	c.ProgramCounter = 0x0400
	c.SetTrapDetection(false)

	var hitPCs []uint16
	first := true
	c.Run(func(status string) string {
		hitPCs = append(hitPCs, c.ProgramCounter)
		if first {
			first = false
			c.ExecuteCommand("B 0405")
			return "X"
		}
		return "Q"
	})

	assert.Equal(t, []uint16{0x0400, 0x0405}, hitPCs)
}

func TestDisassembleFormatsOperandsByMode(t *testing.T) {
	c := newTestCPU(t)
	c.Write(0x0400, 0xa9) // LDA #$05
	c.Write(0x0401, 0x05)
	assert.Equal(t, "LDA #$05", Disassemble(c, 0x0400))

	c.Write(0x0410, 0x4c) // JMP $1234
	c.Write(0x0411, 0x34)
	c.Write(0x0412, 0x12)
	assert.Equal(t, "JMP $1234", Disassemble(c, 0x0410))

	c.Write(0x0420, 0xd0) // BNE -6
	c.Write(0x0421, 0xfa)
	assert.Equal(t, "BNE $041C", Disassemble(c, 0x0420))
}

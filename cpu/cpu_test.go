package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadProgram(t *testing.T) {
	program := []byte{0xa2, 0x0a, 0x8e, 0x00, 0x00, 0xea, 0xea, 0xea}

	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.LoadProgram(program, 0x8000)

	assert.Equal(t, uint8(0xa2), c.Bus.FakeRam[0x8000])
	assert.Equal(t, uint8(0x8e), c.Bus.FakeRam[0x8002])
	assert.Equal(t, "LDX", opcodeTable[c.Bus.FakeRam[0x8000]].Name)
	assert.Equal(t, "STX", opcodeTable[c.Bus.FakeRam[0x8002]].Name)
	assert.Equal(t, "NOP", opcodeTable[c.Bus.FakeRam[0x8005]].Name)
}

// TestMultiplyByRepeatedAddition runs a small hand-assembled program that
// computes 10*3 via repeated addition, mirroring a classic 6502 tutorial
// example, and checks the final register and memory state.
//
//	LDX #$0A    ; X = 10
//	STX $00
//	LDX #$03    ; X = 3
//	STX $01
//	LDY $00     ; Y = 10
//	LDA #$00
//	CLC
//	loop:
//	ADC $01     ; A += 3
//	DEY
//	BNE loop
//	STA $02
//	BRK
func TestMultiplyByRepeatedAddition(t *testing.T) {
	program := []byte{
		0xa2, 0x0a, // LDX #$0A
		0x8e, 0x00, 0x00, // STX $0000
		0xa2, 0x03, // LDX #$03
		0x8e, 0x01, 0x00, // STX $0001
		0xac, 0x00, 0x00, // LDY $0000
		0xa9, 0x00, // LDA #$00
		0x18,                   // CLC
		0x6d, 0x01, 0x00, // ADC $0001
		0x88,       // DEY
		0xd0, 0xfa, // BNE loop (-6)
		0x8d, 0x02, 0x00, // STA $0002
		0x00, // BRK
	}

	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.SetTrapDetection(false)
	c.LoadProgram(program, 0x8000)
	c.ProgramCounter = 0x8000

	for i := 0; i < 39; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(10), c.Bus.FakeRam[0x0000])
	assert.Equal(t, uint8(3), c.Bus.FakeRam[0x0001])
	assert.Equal(t, uint8(30), c.Bus.FakeRam[0x0002])
	assert.Equal(t, uint8(30), c.Accumulator)
	assert.Equal(t, uint8(3), c.X)
	assert.Equal(t, uint8(0), c.Y)
}

func TestBRKPushesAndLoadsIRQVector(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.Bus.Write16(IRQVector, 0x9000)
	c.LoadProgram([]byte{0x00}, 0x8000) // BRK
	c.ProgramCounter = 0x8000

	c.Step()

	assert.Equal(t, uint16(0x9000), c.ProgramCounter)
	assert.True(t, c.Flags.DisableInterrupt)

	p := c.Read(stackBase + uint16(c.Stack) + 1)
	assert.True(t, p&0x10 != 0, "B flag should be pushed set")
	assert.True(t, p&0x20 != 0, "U flag should be pushed set")
}

// TestTriggerIRQRemainsPendingWhileMasked verifies that an IRQ raised
// while I=1 is not dropped: it stays latched until a later instruction
// clears I, and is serviced on the very next Step after that, not lost.
func TestTriggerIRQRemainsPendingWhileMasked(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.Bus.Write16(IRQVector, 0x9000)
	c.LoadProgram([]byte{0x58, 0xea}, 0x8000) // CLI; NOP
	c.ProgramCounter = 0x8000
	c.Flags.DisableInterrupt = true

	c.TriggerIRQ()

	// I is still set: the pending IRQ must not be serviced or discarded.
	c.Step() // CLI
	assert.False(t, c.Flags.DisableInterrupt)
	assert.Equal(t, uint16(0x8001), c.ProgramCounter, "masked IRQ must not divert control flow")

	// I is now clear: the still-pending IRQ must be serviced before NOP.
	c.Step()
	assert.Equal(t, uint16(0x9000), c.ProgramCounter, "latched IRQ should fire as soon as I clears")
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	// JSR $9000; (subroutine returns immediately via RTS)
	c.LoadProgram([]byte{0x20, 0x00, 0x90}, 0x8000)
	c.LoadProgram([]byte{0x60}, 0x9000) // RTS
	c.ProgramCounter = 0x8000

	c.Step() // JSR
	assert.Equal(t, uint16(0x9000), c.ProgramCounter)

	c.Step() // RTS
	assert.Equal(t, uint16(0x8003), c.ProgramCounter)
}

func TestBreakpointGatesRunHook(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.LoadProgram([]byte{0xea, 0xea, 0x00}, 0x8000) // NOP NOP BRK
	c.ProgramCounter = 0x8000
	c.breakpoints[0x8001] = true

	hits := 0
	c.Run(func(status string) string {
		hits++
		return "X"
	})

	// Once on entry (before the first instruction) and once more when the
	// breakpoint at 0x8001 is reached.
	assert.Equal(t, 2, hits)
}

func TestNewCPUOptions(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000, WithTrapDetection(false), WithBreakpoints(0x8010, 0x8020))
	assert.NoError(t, err)
	assert.False(t, c.trapDetection)
	assert.True(t, c.breakpoints[0x8010])
	assert.True(t, c.breakpoints[0x8020])
}

func TestTrapDetectionHaltsOnSelfJump(t *testing.T) {
	c, err := NewCPU(0x8000, 1_000_000)
	assert.NoError(t, err)
	c.LoadProgram([]byte{0x4c, 0x00, 0x80}, 0x8000) // JMP $8000
	c.ProgramCounter = 0x8000

	c.Run(nil)

	assert.True(t, c.Halted())
	assert.Contains(t, c.HaltReason(), "trap")
}

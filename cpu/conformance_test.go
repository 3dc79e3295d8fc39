package cpu

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestKlausDormannFunctionalTests runs the well-known 6502_functional_test
// binary if present under testdata/, and skips otherwise. The ROM traps
// (JMP to its own address) on success at $3469 and on failure anywhere
// else; get it from https://github.com/Klaus2m5/6502_functional_tests and
// drop 6502_functional_test.bin into testdata/ to exercise this.
func TestKlausDormannFunctionalTests(t *testing.T) {
	const path = "testdata/6502_functional_test.bin"
	image, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("conformance fixture not present (%v); skipping", err)
	}

	c, err := NewCPU(0x0400, 1_000_000)
	assert.NoError(t, err)
	c.SetTrapDetection(true)
	c.LoadProgram(image, 0x0000)
	c.ProgramCounter = 0x0400

	const maxSteps = 100_000_000
	for i := 0; i < maxSteps && !c.Halted(); i++ {
		c.Step()
	}

	assert.True(t, c.Halted(), "test ROM should trap on completion")
	assert.Equal(t, uint16(0x3469), c.ProgramCounter, "trapped PC should be the ROM's documented success address")
}

// TestKlausDormannDecimalTests is the companion decimal-mode conformance
// ROM, driven the same way.
func TestKlausDormannDecimalTests(t *testing.T) {
	const path = "testdata/6502_decimal_test.bin"
	image, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("conformance fixture not present (%v); skipping", err)
	}

	c, err := NewCPU(0x0200, 1_000_000)
	assert.NoError(t, err)
	c.SetTrapDetection(true)
	c.LoadProgram(image, 0x0000)
	c.ProgramCounter = 0x0200

	const maxSteps = 10_000_000
	for i := 0; i < maxSteps && !c.Halted(); i++ {
		c.Step()
	}

	assert.True(t, c.Halted())
	assert.Equal(t, byte(0), c.Read(0x000b), "error counter byte should be zero on a clean run")
}

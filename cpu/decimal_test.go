package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestADCDecimalCarryAndWrap exercises 0x99 + 0x01 in BCD mode, the
// textbook case where the binary intermediate (0x9a) disagrees with the
// decimal result (0x00 with carry) on both Z and the final accumulator
// value.
func TestADCDecimalCarryAndWrap(t *testing.T) {
	c := newTestCPU(t)
	c.Flags.Decimal = true
	c.Flags.Carry = false
	c.Accumulator = 0x99
	c.M = 0x01

	c.ADC()

	assert.Equal(t, byte(0x00), c.Accumulator)
	assert.True(t, c.Flags.Carry)
	assert.False(t, c.Flags.Zero, "Z is derived from the binary sum 0x9a, not the corrected 0x00")
	assert.True(t, c.Flags.Negative, "N is derived from the shifted high nibble before the second correction")
}

// TestADCDecimalSimple exercises 0x12 + 0x34 = 0x46 in BCD mode, with no
// nibble corrections needed: decimal and binary arithmetic coincide here.
func TestADCDecimalSimple(t *testing.T) {
	c := newTestCPU(t)
	c.Flags.Decimal = true
	c.Flags.Carry = false
	c.Accumulator = 0x12
	c.M = 0x34

	c.ADC()

	assert.Equal(t, byte(0x46), c.Accumulator)
	assert.False(t, c.Flags.Carry)
}

// TestADCDecimalLowNibbleCorrection exercises 0x15 + 0x27 = 0x42, which
// requires correcting the low nibble (5+7=12>9) but not the high nibble.
func TestADCDecimalLowNibbleCorrection(t *testing.T) {
	c := newTestCPU(t)
	c.Flags.Decimal = true
	c.Flags.Carry = false
	c.Accumulator = 0x15
	c.M = 0x27

	c.ADC()

	assert.Equal(t, byte(0x42), c.Accumulator)
	assert.False(t, c.Flags.Carry)
}

// TestSBCDecimalBorrow exercises 0x00 - 0x01 with carry set (no incoming
// borrow), which must borrow through both nibbles to produce 0x99.
func TestSBCDecimalBorrow(t *testing.T) {
	c := newTestCPU(t)
	c.Flags.Decimal = true
	c.Flags.Carry = true
	c.Accumulator = 0x00
	c.M = 0x01

	c.SBC()

	assert.Equal(t, byte(0x99), c.Accumulator)
	assert.False(t, c.Flags.Carry, "carry clear signals a borrow occurred")
}

// TestSBCDecimalNoBorrow exercises 0x50 - 0x25 = 0x25: the low nibble
// borrows from the high nibble (0-5), but there is no final borrow, so C
// stays set.
func TestSBCDecimalNoBorrow(t *testing.T) {
	c := newTestCPU(t)
	c.Flags.Decimal = true
	c.Flags.Carry = true
	c.Accumulator = 0x50
	c.M = 0x25

	c.SBC()

	assert.Equal(t, byte(0x25), c.Accumulator)
	assert.True(t, c.Flags.Carry)
}

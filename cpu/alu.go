package cpu

// storeResult writes v back to wherever the current instruction's operand
// came from: the Accumulator register, or the effective address in
// memory. Shared by every read-modify-write opcode (ASL, LSR, ROL, ROR,
// INC, DEC) so the same primitive serves both the accumulator and memory
// variants.
func (c *Cpu) storeResult(v byte) {
	if c.mode == Accumulator {
		c.Accumulator = v
	} else {
		c.Write(c.AbsAddress, v)
	}
}

// adcBinary implements ADC in binary (D=0) mode. t = A + M + C; C is set if
// the 9-bit sum overflows; V is set from the signed-overflow identity
// (A^t)&(M^t)&0x80; A takes the low 8 bits of t; NZ set on A.
func (c *Cpu) adcBinary(m byte) {
	carry := uint16(0)
	if c.Flags.Carry {
		carry = 1
	}
	t := uint16(c.Accumulator) + uint16(m) + carry
	c.Flags.Carry = t > 0xff
	c.Flags.Overflow = (uint16(c.Accumulator)^t)&(uint16(m)^t)&0x80 != 0
	c.Accumulator = byte(t)
	c.setNZ(c.Accumulator)
}

// adcDecimal implements ADC in BCD (D=1) mode. Z is derived from the binary
// sum before BCD correction (tbin); N and V are derived from the high nibble
// after the low-nibble carry but before its own correction; C is derived
// from the post-correction high-nibble overflow. This split is exactly what Klaus
// Dormann's decimal-mode conformance test verifies, and is the detail most
// naive implementations get wrong.
func (c *Cpu) adcDecimal(m byte) {
	carry := uint16(0)
	if c.Flags.Carry {
		carry = 1
	}
	tbin := uint16(c.Accumulator) + uint16(m) + carry

	ln := uint16(c.Accumulator&0x0f) + uint16(m&0x0f) + carry
	if ln > 9 {
		ln += 6
	}
	hn := uint16(c.Accumulator>>4) + uint16(m>>4)
	if ln > 0x0f {
		hn++
	}

	hnShifted := byte(hn<<4) & 0xff
	c.Flags.Negative = hnShifted&0x80 != 0
	c.Flags.Overflow = (uint16(c.Accumulator)^uint16(hnShifted))&(uint16(m)^uint16(hnShifted))&0x80 != 0

	if hn > 9 {
		hn += 6
	}
	c.Flags.Carry = hn > 0x0f

	c.Accumulator = byte((hn<<4)|(ln&0x0f)) & 0xff
	c.Flags.Zero = byte(tbin) == 0
}

// ADC - Add with Carry
func (c *Cpu) ADC() {
	if c.Flags.Decimal {
		c.adcDecimal(c.M)
	} else {
		c.adcBinary(c.M)
	}
}

// sbcBinary implements SBC in binary mode as ADC with the operand
// ones-complemented.
func (c *Cpu) sbcBinary(m byte) {
	c.adcBinary(m ^ 0xff)
}

// sbcDecimal implements SBC in BCD mode. N/V/Z come from the binary
// subtraction (tbin); C reflects "no final borrow" in wide arithmetic; the
// nibble correction borrows 6 from a nibble whenever it goes negative.
func (c *Cpu) sbcDecimal(m byte) {
	borrow := int16(0)
	if !c.Flags.Carry {
		borrow = 1
	}
	tbin := int16(c.Accumulator) - int16(m) - borrow
	c.Flags.Negative = byte(tbin)&0x80 != 0
	c.Flags.Zero = byte(tbin) == 0
	c.Flags.Overflow = (uint16(c.Accumulator)^uint16(m))&(uint16(c.Accumulator)^uint16(tbin))&0x80 != 0

	ln := int16(c.Accumulator&0x0f) - int16(m&0x0f) - borrow
	highBorrow := int16(0)
	if ln&0x10 != 0 {
		ln = (ln - 6) & 0x0f
		highBorrow = 1
	}
	hn := int16(c.Accumulator>>4) - int16(m>>4) - highBorrow
	if hn&0x10 != 0 {
		hn = (hn - 6) & 0x0f
	}

	c.Flags.Carry = tbin >= 0
	c.Accumulator = byte((hn<<4)|ln) & 0xff
}

// SBC - Subtract with Carry
func (c *Cpu) SBC() {
	if c.Flags.Decimal {
		c.sbcDecimal(c.M)
	} else {
		c.sbcBinary(c.M)
	}
}

// AND - Logical AND
func (c *Cpu) AND() {
	c.Accumulator &= c.M
	c.setNZ(c.Accumulator)
}

// ORA - Logical Inclusive OR
func (c *Cpu) ORA() {
	c.Accumulator |= c.M
	c.setNZ(c.Accumulator)
}

// EOR - Exclusive OR
func (c *Cpu) EOR() {
	c.Accumulator ^= c.M
	c.setNZ(c.Accumulator)
}

// ASL - Arithmetic Shift Left. C takes the old bit 7.
func (c *Cpu) ASL() {
	v := c.M
	c.Flags.Carry = v&0x80 != 0
	v <<= 1
	c.setNZ(v)
	c.storeResult(v)
}

// LSR - Logical Shift Right. C takes the old bit 0.
func (c *Cpu) LSR() {
	v := c.M
	c.Flags.Carry = v&0x01 != 0
	v >>= 1
	c.setNZ(v)
	c.storeResult(v)
}

// ROL - Rotate Left. The old carry becomes the new bit 0; C takes the old
// bit 7.
func (c *Cpu) ROL() {
	v := c.M
	oldCarry := byte(0)
	if c.Flags.Carry {
		oldCarry = 1
	}
	c.Flags.Carry = v&0x80 != 0
	v = (v << 1) | oldCarry
	c.setNZ(v)
	c.storeResult(v)
}

// ROR - Rotate Right. The old carry becomes the new bit 7; C takes the old
// bit 0.
func (c *Cpu) ROR() {
	v := c.M
	oldCarry := byte(0)
	if c.Flags.Carry {
		oldCarry = 1
	}
	c.Flags.Carry = v&0x01 != 0
	v = (v >> 1) | (oldCarry << 7)
	c.setNZ(v)
	c.storeResult(v)
}

// compare is the shared CMP/CPX/CPY primitive: C<-(reg>=M), NZ on
// (reg-M)&0xff.
func (c *Cpu) compare(reg byte) {
	c.Flags.Carry = reg >= c.M
	c.setNZ(reg - c.M)
}

// CMP - Compare Accumulator
func (c *Cpu) CMP() { c.compare(c.Accumulator) }

// CPX - Compare X Register
func (c *Cpu) CPX() { c.compare(c.X) }

// CPY - Compare Y Register
func (c *Cpu) CPY() { c.compare(c.Y) }

// BIT - Bit Test. Z reflects A&M==0; N and V are copied directly from bits
// 7 and 6 of M, not of A&M.
func (c *Cpu) BIT() {
	c.Flags.Zero = c.Accumulator&c.M == 0
	c.Flags.Negative = c.M&0x80 != 0
	c.Flags.Overflow = c.M&0x40 != 0
}

// INC - Increment Memory
func (c *Cpu) INC() {
	v := c.M + 1
	c.setNZ(v)
	c.storeResult(v)
}

// DEC - Decrement Memory
func (c *Cpu) DEC() {
	v := c.M - 1
	c.setNZ(v)
	c.storeResult(v)
}

// INX - Increment X Register
func (c *Cpu) INX() { c.X++; c.setNZ(c.X) }

// INY - Increment Y Register
func (c *Cpu) INY() { c.Y++; c.setNZ(c.Y) }

// DEX - Decrement X Register
func (c *Cpu) DEX() { c.X--; c.setNZ(c.X) }

// DEY - Decrement Y Register
func (c *Cpu) DEY() { c.Y--; c.setNZ(c.Y) }

package cpu

import "mos6502/mask"

// decode resolves the effective address for the current instruction's
// addressing mode, advances ProgramCounter past the operand, and loads
// c.M with the byte at that address (for modes that read memory; store
// opcodes ignore c.M, read-modify-write opcodes operate on it and write
// the result back through storeResult). It
// returns whether the effective-address computation crossed a page
// boundary, which the caller (Step) uses to apply the +1 cycle penalty to
// read-only opcodes only.
func (c *Cpu) decode(mode AddressingMode) (pageCrossed bool) {
	switch mode {

	case Implied:
		return false

	case Accumulator:
		c.M = c.Accumulator
		return false

	case Immediate:
		c.AbsAddress = c.ProgramCounter
		c.ProgramCounter++
		c.M = c.Read(c.AbsAddress)
		return false

	case ZeroPage:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter))
		c.ProgramCounter++
		c.M = c.Read(c.AbsAddress)
		return false

	case ZeroPageX:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter)+c.X) & 0x00ff
		c.ProgramCounter++
		c.M = c.Read(c.AbsAddress)
		return false

	case ZeroPageY:
		c.AbsAddress = uint16(c.Read(c.ProgramCounter)+c.Y) & 0x00ff
		c.ProgramCounter++
		c.M = c.Read(c.AbsAddress)
		return false

	case Relative:
		// Effective address is PC+2 (the address after this 2-byte
		// instruction) plus the operand interpreted as a signed
		// offset. The page-cross flag reflects whether the branch
		// target lands in a different page than PC+2; branch
		// instructions consult c.PageCrossed themselves when deciding
		// the extra cycle, since an untaken branch never pays it.
		rel := int8(c.Read(c.ProgramCounter))
		c.ProgramCounter++
		base := c.ProgramCounter
		c.AbsAddress = uint16(int32(base) + int32(rel))
		return base&0xff00 != c.AbsAddress&0xff00

	case Absolute:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		c.AbsAddress = mask.Word(hi, lo)
		c.M = c.Read(c.AbsAddress)
		return false

	case AbsoluteX:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		base := mask.Word(hi, lo)
		c.AbsAddress = base + uint16(c.X)
		c.M = c.Read(c.AbsAddress)
		return base&0xff00 != c.AbsAddress&0xff00

	case AbsoluteY:
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		base := mask.Word(hi, lo)
		c.AbsAddress = base + uint16(c.Y)
		c.M = c.Read(c.AbsAddress)
		return base&0xff00 != c.AbsAddress&0xff00

	case Indirect:
		// Only used by JMP; reproduces the page-wrap bug via
		// Bus.Read16Bug. No operand read into c.M: the instruction
		// jumps rather than loads.
		lo := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		hi := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		ptr := mask.Word(hi, lo)
		c.AbsAddress = c.Bus.Read16Bug(ptr)
		return false

	case IndirectX:
		zp := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		ptr := uint16(zp + c.X) // 8-bit wrap before the zero-page lookup
		lo := c.Read(ptr & 0x00ff)
		hi := c.Read((ptr + 1) & 0x00ff)
		c.AbsAddress = mask.Word(hi, lo)
		c.M = c.Read(c.AbsAddress)
		return false

	case IndirectY:
		zp := c.Read(c.ProgramCounter)
		c.ProgramCounter++
		lo := c.Read(uint16(zp) & 0x00ff)
		hi := c.Read(uint16(zp+1) & 0x00ff)
		base := mask.Word(hi, lo)
		c.AbsAddress = base + uint16(c.Y)
		c.M = c.Read(c.AbsAddress)
		return base&0xff00 != c.AbsAddress&0xff00

	default:
		return false
	}
}

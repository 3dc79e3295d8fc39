package cpu

// all function signatures were originally drawn from
// https://www.nesdev.org/obelisk-6502-guide/reference.html
//
// this file holds every instruction that isn't part of the ALU & Flag
// Engine (alu.go): control flow, the stack discipline, flag bits, register
// transfers, and load/store.

// branch is the shared primitive for BPL/BMI/BVC/BVS/BCC/BCS/BNE/BEQ. When
// cond holds, it pays the +1 cycle for the taken branch (and +1 more if the
// target crosses a page, per Relative addressing's page-crossed flag) and
// jumps; an untaken branch never pays either cycle.
func (c *Cpu) branch(cond bool) {
	if !cond {
		return
	}
	c.Cycles++
	if c.PageCrossed {
		c.Cycles++
	}
	c.ProgramCounter = c.AbsAddress
}

// BPL - Branch if Positive
func (c *Cpu) BPL() { c.branch(!c.Flags.Negative) }

// BMI - Branch if Minus
func (c *Cpu) BMI() { c.branch(c.Flags.Negative) }

// BVC - Branch if Overflow Clear
func (c *Cpu) BVC() { c.branch(!c.Flags.Overflow) }

// BVS - Branch if Overflow Set
func (c *Cpu) BVS() { c.branch(c.Flags.Overflow) }

// BCC - Branch if Carry Clear
func (c *Cpu) BCC() { c.branch(!c.Flags.Carry) }

// BCS - Branch if Carry Set
func (c *Cpu) BCS() { c.branch(c.Flags.Carry) }

// BNE - Branch if Not Equal
func (c *Cpu) BNE() { c.branch(!c.Flags.Zero) }

// BEQ - Branch if Equal
func (c *Cpu) BEQ() { c.branch(c.Flags.Zero) }

// JMP - Jump. AbsAddress already carries the target: Absolute reads it
// directly, Indirect resolves it via Bus.Read16Bug to reproduce the
// page-wrap bug.
func (c *Cpu) JMP() { c.ProgramCounter = c.AbsAddress }

// JSR - Jump to Subroutine. Pushes the address of the last byte of the
// JSR instruction (return address minus one); RTS compensates with its
// own +1.
func (c *Cpu) JSR() {
	c.pushWord(c.ProgramCounter - 1)
	c.ProgramCounter = c.AbsAddress
}

// RTS - Return from Subroutine
func (c *Cpu) RTS() {
	target := c.popWord()
	c.ProgramCounter = target + 1
}

// BRK - Force Interrupt. Skips the padding byte after the opcode, pushes
// PC and P (with B=1, U=1), sets I, and loads PC from the IRQ/BRK vector.
func (c *Cpu) BRK() {
	c.ProgramCounter++
	c.pushWord(c.ProgramCounter)
	c.Flags.B = true
	c.Flags.Unused = true
	c.push(c.Flags.byteAs(true, true))
	c.Flags.DisableInterrupt = true
	c.ProgramCounter = c.Bus.Read16(IRQVector)
}

// RTI - Return from Interrupt. Unlike RTS, no +1 adjustment to PC: the
// pushed PC was never incremented past an operand the way JSR's was.
func (c *Cpu) RTI() {
	v := c.pop()
	c.Flags = flagsFromByte(v)
	c.Flags.B = false
	c.Flags.Unused = true
	c.ProgramCounter = c.popWord()
}

// PHP - Push Processor Status (with B=1, U=1)
func (c *Cpu) PHP() { c.push(c.Flags.byteAs(true, true)) }

// PLP - Pull Processor Status. B is forced to 0 and U to 1 in the live
// register regardless of what was on the stack.
func (c *Cpu) PLP() {
	c.Flags = flagsFromByte(c.pop())
	c.Flags.B = false
	c.Flags.Unused = true
}

// PHA - Push Accumulator
func (c *Cpu) PHA() { c.push(c.Accumulator) }

// PLA - Pull Accumulator
func (c *Cpu) PLA() {
	c.Accumulator = c.pop()
	c.setNZ(c.Accumulator)
}

// CLC - Clear Carry Flag
func (c *Cpu) CLC() { c.Flags.Carry = false }

// SEC - Set Carry Flag
func (c *Cpu) SEC() { c.Flags.Carry = true }

// CLI - Clear Interrupt Disable
func (c *Cpu) CLI() { c.Flags.DisableInterrupt = false }

// SEI - Set Interrupt Disable
func (c *Cpu) SEI() { c.Flags.DisableInterrupt = true }

// CLD - Clear Decimal Mode
func (c *Cpu) CLD() { c.Flags.Decimal = false }

// SED - Set Decimal Flag
func (c *Cpu) SED() { c.Flags.Decimal = true }

// CLV - Clear Overflow Flag
func (c *Cpu) CLV() { c.Flags.Overflow = false }

// LDA - Load Accumulator
func (c *Cpu) LDA() { c.Accumulator = c.M; c.setNZ(c.Accumulator) }

// LDX - Load X Register
func (c *Cpu) LDX() { c.X = c.M; c.setNZ(c.X) }

// LDY - Load Y Register
func (c *Cpu) LDY() { c.Y = c.M; c.setNZ(c.Y) }

// STA - Store Accumulator
func (c *Cpu) STA() { c.Write(c.AbsAddress, c.Accumulator) }

// STX - Store X Register
func (c *Cpu) STX() { c.Write(c.AbsAddress, c.X) }

// STY - Store Y Register
func (c *Cpu) STY() { c.Write(c.AbsAddress, c.Y) }

// TAX - Transfer Accumulator to X
func (c *Cpu) TAX() { c.X = c.Accumulator; c.setNZ(c.X) }

// TAY - Transfer Accumulator to Y
func (c *Cpu) TAY() { c.Y = c.Accumulator; c.setNZ(c.Y) }

// TXA - Transfer X to Accumulator
func (c *Cpu) TXA() { c.Accumulator = c.X; c.setNZ(c.Accumulator) }

// TYA - Transfer Y to Accumulator
func (c *Cpu) TYA() { c.Accumulator = c.Y; c.setNZ(c.Accumulator) }

// TSX - Transfer Stack Pointer to X
func (c *Cpu) TSX() { c.X = c.Stack; c.setNZ(c.X) }

// TXS - Transfer X to Stack Pointer. Unlike TSX, this does not affect NZ:
// the stack pointer isn't a value register.
func (c *Cpu) TXS() { c.Stack = c.X }

// NOP - No Operation
func (c *Cpu) NOP() {}

// undocumentedNOP backs every one of the 105 opcode slots not assigned to a
// documented instruction: a deterministic no-op. Every such slot is
// registered with Implied mode, so decode consumes no operand bytes and
// the PC advances by the opcode byte alone; any operand bytes that follow
// are fetched as the next opcode.
func (c *Cpu) undocumentedNOP() {}

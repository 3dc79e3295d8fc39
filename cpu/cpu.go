// Package cpu implements the MOS Technology 6502 microprocessor: the
// fetch/decode/execute loop, the addressing-mode resolver, the flag-accurate
// ALU (including BCD arithmetic), interrupt/reset sequencing, and a realtime
// clock pacing mechanism.
//
// The package has no peripheral mapping, no video, no sound; memory is a
// flat 64 KiB byte-addressable Bus (see mos6502/mem). There are no
// suspension points inside Step; the only blocking call anywhere in the
// package is the pacing sleep Run performs between instructions.
package cpu

import (
	"fmt"
	"time"

	"mos6502/mask"
	"mos6502/mem"
)

// https://www.nesdev.org/wiki/CPU_interrupts
// https://www.nesdev.org/wiki/Status_flags
// http://www.6502.org/tutorials/6502opcodes.html

const (
	NMIVector   = uint16(0xfffa)
	ResetVector = uint16(0xfffc)
	IRQVector   = uint16(0xfffe)

	stackBase = uint16(0x0100)
)

// Flags is the processor status register (P), exploded into named bits.
//
// 7654 3210
// NV1B DIZC
type Flags struct {
	Negative         bool // N, bit 7
	Overflow         bool // V, bit 6
	Unused           bool // U, bit 5; conventionally 1 whenever P is pushed
	B                bool // B, bit 4; only meaningful in pushed copies
	Decimal          bool // D, bit 3
	DisableInterrupt bool // I, bit 2
	Zero             bool // Z, bit 1
	Carry            bool // C, bit 0
}

// byteAs packs Flags into the conventional 6502 status byte (NV1BDIZC),
// using b and u for the bits the live register has no fixed value for (B
// is only meaningful in a pushed copy; U is conventionally 1 whenever
// pushed). The status byte's bit order matches mask's 1-indexed byteIndex
// exactly (I1 is bit 7/N, ... I8 is bit 0/C), so each flag is packed
// through mask.Set rather than a hand-rolled OR of a bit literal.
func (f Flags) byteAs(b, u bool) byte {
	var v byte
	if f.Negative {
		v = mask.Set(v, mask.I1, 1)
	}
	if f.Overflow {
		v = mask.Set(v, mask.I2, 1)
	}
	if u {
		v = mask.Set(v, mask.I3, 1)
	}
	if b {
		v = mask.Set(v, mask.I4, 1)
	}
	if f.Decimal {
		v = mask.Set(v, mask.I5, 1)
	}
	if f.DisableInterrupt {
		v = mask.Set(v, mask.I6, 1)
	}
	if f.Zero {
		v = mask.Set(v, mask.I7, 1)
	}
	if f.Carry {
		v = mask.Set(v, mask.I8, 1)
	}
	return v
}

// flagsFromByte unpacks a pushed status byte. U is always forced true and B
// is carried through as read; callers that pop into the *live* P register
// (PLP, RTI) additionally force B to 0 per spec.
func flagsFromByte(v byte) Flags {
	return Flags{
		Negative:         mask.IsSet(v, mask.I1),
		Overflow:         mask.IsSet(v, mask.I2),
		Unused:           true,
		B:                mask.IsSet(v, mask.I4),
		Decimal:          mask.IsSet(v, mask.I5),
		DisableInterrupt: mask.IsSet(v, mask.I6),
		Zero:             mask.IsSet(v, mask.I7),
		Carry:            mask.IsSet(v, mask.I8),
	}
}

// setNZ sets Negative from bit 7 of v and Zero from v==0, the common tail
// of nearly every ALU operation.
func (c *Cpu) setNZ(v byte) {
	c.Flags.Negative = mask.IsSet(v, mask.I1)
	c.Flags.Zero = v == 0
}

// AddressingMode names one of the 13 ways an opcode's operand locates its
// effective address.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
)

// StepHook is invoked between instructions when a breakpoint is hit or
// single-step mode is active. status is a human-readable disassembly plus
// register dump; the returned string is a debug command (see
// Cpu.ExecuteCommand).
type StepHook func(status string) string

// Cpu is a MOS 6502 register file plus the memory Bus it operates against.
type Cpu struct {
	Bus *mem.Bus

	Flags Flags

	Accumulator byte
	X           byte
	Y           byte
	Stack       byte // SP; stack lives at 0x0100+Stack

	ProgramCounter uint16

	// per-instruction scratch, valid during/after decode of the
	// instruction currently executing
	M           byte           // value fetched via the current addressing mode (unused by store/jump opcodes)
	AbsAddress  uint16         // effective address resolved by the current addressing mode
	PageCrossed bool           // set by the addressing unit for the instruction in progress
	mode        AddressingMode // addressing mode of the instruction in progress, for RMW writeback

	Cycles uint64 // total elapsed cycles since power-up/reset

	clockHz float64
	anchor  time.Time // wall-clock time at which Cycles equaled anchorCycles
	anchorCycles uint64

	trapDetection bool
	lastFetchPC   uint16
	steppedOnce   bool
	halted        bool
	haltReason    string

	breakpoints map[uint16]bool
	stepping    bool
	hook        StepHook

	pendingNMI bool
	pendingIRQ bool
}

// Option configures a Cpu at construction time, in the manner of a small
// functional-options constructor rather than a config struct.
type Option func(*Cpu)

// WithTrapDetection overrides the default (enabled) trap-detection state
// at construction, equivalent to issuing the T debug command before the
// first Step.
func WithTrapDetection(on bool) Option {
	return func(c *Cpu) { c.trapDetection = on }
}

// WithBreakpoints preloads one or more breakpoint addresses, equivalent to
// issuing a B <hex> debug command for each address before Run starts.
func WithBreakpoints(addrs ...uint16) Option {
	return func(c *Cpu) {
		for _, a := range addrs {
			c.breakpoints[a] = true
		}
	}
}

// NewCPU constructs a Cpu whose reset vector points at start and whose
// pacing clock targets clockHz cycles per second. clockHz must be positive:
// there is no sane "run as fast as possible while also pacing to zero"
// interpretation, so a non-positive frequency is rejected eagerly here
// rather than silently never sleeping.
func NewCPU(start uint16, clockHz float64, opts ...Option) (*Cpu, error) {
	if clockHz <= 0 {
		return nil, fmt.Errorf("cpu: clockHz must be positive, got %v", clockHz)
	}
	c := &Cpu{
		Bus:           &mem.Bus{},
		clockHz:       clockHz,
		trapDetection: true,
		breakpoints:   map[uint16]bool{},
	}
	c.Bus.Write16(ResetVector, start)
	c.PowerUp()
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoadProgram copies program into the Bus starting at addr. It is a thin
// convenience for tests and the monitor command; the host is otherwise free
// to populate the Bus by any means before calling Run.
func (c *Cpu) LoadProgram(program []byte, addr uint16) {
	for i, b := range program {
		c.Bus.FakeRam[addr+uint16(i)] = b
	}
}

// Read reads one byte from addr via the Bus.
func (c *Cpu) Read(addr uint16) byte { return c.Bus.Read(addr, true) }

// Write stores data at addr via the Bus.
func (c *Cpu) Write(addr uint16, data byte) { c.Bus.Write(addr, data) }

// PowerUp initializes registers to the 6502's documented power-on state:
// I=1, B=0, U=1 (remaining flags cleared), SP=0xff, PC loaded from the
// reset vector.
func (c *Cpu) PowerUp() {
	c.Accumulator = 0
	c.X = 0
	c.Y = 0
	c.Stack = 0xff
	c.Flags = Flags{DisableInterrupt: true, Unused: true}
	c.ProgramCounter = c.Bus.Read16(ResetVector)
	c.Cycles = 0
	c.anchor = time.Time{}
	c.anchorCycles = 0
	c.halted = false
	c.haltReason = ""
	c.steppedOnce = false
}

// Reset performs the 6502 RESET sequence: SP<-0xff, I<-1, B<-0, U<-1,
// PC<-read16(0xfffc), +7 cycles. Unlike PowerUp, A/X/Y and the other flags
// are left untouched, matching real hardware.
func (c *Cpu) Reset() {
	c.Stack = 0xff
	c.Flags.DisableInterrupt = true
	c.Flags.B = false
	c.Flags.Unused = true
	c.ProgramCounter = c.Bus.Read16(ResetVector)
	c.Cycles += 7
	c.halted = false
	c.steppedOnce = false
}

// TriggerNMI raises a pending non-maskable interrupt; it is serviced at the
// start of the next Step regardless of the I flag.
func (c *Cpu) TriggerNMI() { c.pendingNMI = true }

// TriggerIRQ raises a pending maskable interrupt; it is serviced at the
// start of the next Step only if I=0.
func (c *Cpu) TriggerIRQ() { c.pendingIRQ = true }

// SetTrapDetection enables or disables the infinite-self-jump trap used by
// Klaus Dormann-style conformance tests to signal completion. Corresponds
// to the debug monitor's T command.
func (c *Cpu) SetTrapDetection(on bool) { c.trapDetection = on }

// Halted reports whether the CPU has stopped (trap fired, or the debug hook
// issued Q).
func (c *Cpu) Halted() bool { return c.halted }

// HaltReason describes why the CPU stopped, once Halted is true.
func (c *Cpu) HaltReason() string { return c.haltReason }

func (c *Cpu) push(v byte) {
	c.Write(stackBase+uint16(c.Stack), v)
	c.Stack--
}

func (c *Cpu) pop() byte {
	c.Stack++
	return c.Read(stackBase + uint16(c.Stack))
}

func (c *Cpu) pushWord(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

func (c *Cpu) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// serviceInterrupt runs the shared NMI/IRQ hardware sequence: push PC high,
// PC low, then P with B=0, U=1; set I; load PC from vector; +7 cycles.
func (c *Cpu) serviceInterrupt(vector uint16) {
	c.pushWord(c.ProgramCounter)
	c.Flags.B = false
	c.Flags.Unused = true
	c.push(c.Flags.byteAs(false, true))
	c.Flags.DisableInterrupt = true
	c.ProgramCounter = c.Bus.Read16(vector)
	c.Cycles += 7
}

// Step services any pending interrupt (if none, executes exactly one
// instruction) and returns the number of cycles consumed.
//
// Trap detection: if enabled, and the PC about to be fetched from equals
// the PC the previous instruction was fetched from, the CPU halts. A
// normal instruction stream never repeats its own fetch address (every
// opcode advances PC by at least its own length); the one way to see the
// same fetch PC twice in a row is an instruction that jumps straight back
// to itself (a classic "JMP *" spin), which is exactly the convention
// Klaus Dormann's test ROMs use to signal completion.
func (c *Cpu) Step() uint64 {
	start := c.Cycles

	if c.pendingNMI {
		c.pendingNMI = false
		c.serviceInterrupt(NMIVector)
		return c.Cycles - start
	}
	if c.pendingIRQ && !c.Flags.DisableInterrupt {
		c.pendingIRQ = false
		c.serviceInterrupt(IRQVector)
		return c.Cycles - start
	}

	pc := c.ProgramCounter
	if c.trapDetection && c.steppedOnce && pc == c.lastFetchPC {
		c.halted = true
		c.haltReason = fmt.Sprintf("trap detected at $%04x", pc)
		return c.Cycles - start
	}
	c.lastFetchPC = pc
	c.steppedOnce = true

	opByte := c.Read(c.ProgramCounter)
	c.ProgramCounter++

	op := opcodeTable[opByte]
	c.mode = op.Mode
	c.PageCrossed = c.decode(op.Mode)

	op.Exec(c)

	cycles := uint64(op.Cycles)
	if c.PageCrossed && op.PageCrossPenalty {
		cycles++
	}
	c.Cycles += cycles

	return c.Cycles - start
}

// Run executes instructions until halted (a trap fires, or the debug hook
// issues Q), pacing itself to the configured clock frequency. hook may be
// nil, in which case execution only ever stops via a trap.
//
// If hook is non-nil, it is entered once before the first instruction
// executes, the same way it is entered on any later breakpoint hit: this
// is what lets a caller install initial breakpoints (B) before anything
// runs, per the debug command grammar's B/X interaction.
func (c *Cpu) Run(hook StepHook) {
	c.hook = hook
	c.anchor = time.Now()
	c.anchorCycles = c.Cycles

	const syncEvery = 256
	sinceSync := 0

	if c.hook != nil {
		c.runHook()
		if c.halted {
			return
		}
	}

	for !c.halted {
		if c.hook != nil && (c.stepping || c.breakpoints[c.ProgramCounter]) {
			c.runHook()
			if c.halted {
				return
			}
		}

		c.Step()
		sinceSync++

		if c.stepping || sinceSync >= syncEvery {
			c.pace()
			sinceSync = 0
		}
	}
}

// runHook invokes the installed debug hook repeatedly until it returns a
// command that resumes execution (S or X) or halts (Q).
func (c *Cpu) runHook() {
	for {
		cmd := c.hook(c.StatusString())
		resume, singleStep := c.ExecuteCommand(cmd)
		if c.halted {
			return
		}
		if resume {
			c.stepping = singleStep
			return
		}
	}
}

// pace sleeps long enough that the average executed frequency converges to
// clockHz over long horizons. Best-effort: never sleeps a negative
// duration, so short bursts may briefly run faster than clockHz.
func (c *Cpu) pace() {
	elapsed := c.Cycles - c.anchorCycles
	ideal := time.Duration(float64(elapsed) / c.clockHz * float64(time.Second))
	actual := time.Since(c.anchor)
	if ideal > actual {
		time.Sleep(ideal - actual)
	}
}

// StatusString renders a one-line disassembly-plus-register dump, the
// status string passed to the debug hook between instructions.
func (c *Cpu) StatusString() string {
	return fmt.Sprintf(
		"%04X  %-12s  A:%02X X:%02X Y:%02X P:%02X SP:%02X  NV-BDIZC:%08b  CYC:%d",
		c.ProgramCounter,
		Disassemble(c, c.ProgramCounter),
		c.Accumulator, c.X, c.Y,
		c.Flags.byteAs(c.Flags.B, true),
		c.Stack,
		c.Flags.byteAs(c.Flags.B, true),
		c.Cycles,
	)
}

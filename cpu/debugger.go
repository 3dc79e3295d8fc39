package cpu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// ExecuteCommand applies one debug command and reports whether execution
// should resume, and if so whether it should resume in single-step mode.
// The grammar:
//
//	?          help; no effect here (the front-end shows the text), stay paused
//	B <hex>    toggle a breakpoint at the given address
//	D <hex>    dump 16 bytes of memory starting at the given address
//	Q          halt the CPU
//	S          single-step: execute one instruction, then pause again
//	T          toggle trap detection
//	X          resume free execution until the next breakpoint or trap
//
// Unrecognized input is treated like "?": nothing is printed and execution
// stays paused.
func (c *Cpu) ExecuteCommand(cmd string) (resume bool, singleStep bool) {
	fields := strings.Fields(strings.TrimSpace(cmd))
	if len(fields) == 0 {
		return false, false
	}

	switch strings.ToUpper(fields[0]) {
	case "B":
		if len(fields) < 2 {
			return false, false
		}
		addr, err := strconv.ParseUint(fields[1], 16, 16)
		if err != nil {
			return false, false
		}
		a := uint16(addr)
		if c.breakpoints[a] {
			delete(c.breakpoints, a)
		} else {
			c.breakpoints[a] = true
		}
		return false, false

	case "D":
		if len(fields) < 2 {
			return false, false
		}
		addr, err := strconv.ParseUint(fields[1], 16, 16)
		if err != nil {
			return false, false
		}
		fmt.Println(c.DumpMemory(uint16(addr)))
		return false, false

	case "Q":
		c.halted = true
		c.haltReason = "halted by debug command"
		return false, false

	case "S":
		return true, true

	case "T":
		c.trapDetection = !c.trapDetection
		return false, false

	case "X":
		return true, false

	default:
		return false, false
	}
}

// DumpMemory renders 16 bytes of memory starting at addr, the response to
// the D debug command.
func (c *Cpu) DumpMemory(addr uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04X | ", addr)
	for i := uint16(0); i < 16; i++ {
		fmt.Fprintf(&b, "%02X ", c.Read(addr+i))
	}
	return b.String()
}

// operandLength returns how many operand bytes follow the opcode byte for
// a given addressing mode.
func operandLength(mode AddressingMode) int {
	switch mode {
	case Implied, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndirectX, IndirectY:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 0
	}
}

// Disassemble formats the instruction at pc without mutating CPU state: it
// peeks at the Bus directly rather than going through decode, which is
// reserved for the fetch/execute path.
func Disassemble(c *Cpu, pc uint16) string {
	opByte := c.Read(pc)
	op := opcodeTable[opByte]
	length := operandLength(op.Mode)

	switch length {
	case 0:
		return op.Name
	case 1:
		operand := c.Read(pc + 1)
		switch op.Mode {
		case Immediate:
			return fmt.Sprintf("%s #$%02X", op.Name, operand)
		case Relative:
			target := uint16(int32(pc+2) + int32(int8(operand)))
			return fmt.Sprintf("%s $%04X", op.Name, target)
		case ZeroPageX:
			return fmt.Sprintf("%s $%02X,X", op.Name, operand)
		case ZeroPageY:
			return fmt.Sprintf("%s $%02X,Y", op.Name, operand)
		case IndirectX:
			return fmt.Sprintf("%s ($%02X,X)", op.Name, operand)
		case IndirectY:
			return fmt.Sprintf("%s ($%02X),Y", op.Name, operand)
		default:
			return fmt.Sprintf("%s $%02X", op.Name, operand)
		}
	default:
		lo := c.Read(pc + 1)
		hi := c.Read(pc + 2)
		addr := uint16(hi)<<8 | uint16(lo)
		switch op.Mode {
		case AbsoluteX:
			return fmt.Sprintf("%s $%04X,X", op.Name, addr)
		case AbsoluteY:
			return fmt.Sprintf("%s $%04X,Y", op.Name, addr)
		case Indirect:
			return fmt.Sprintf("%s ($%04X)", op.Name, addr)
		default:
			return fmt.Sprintf("%s $%04X", op.Name, addr)
		}
	}
}

// model is the bubbletea front-end for the interactive debugger: every
// keystroke either executes a bare command (Q, S, T, X) or, for B/D, opens a
// one-line hex prompt terminated by Enter.
type model struct {
	cpu     *Cpu
	program []byte
	offset  uint16

	pending string // "B" or "D" while awaiting a hex argument
	input   strings.Builder
	log     []string
}

const historyLines = 12

func (m *model) note(s string) {
	m.log = append(m.log, s)
	if len(m.log) > historyLines {
		m.log = m.log[len(m.log)-historyLines:]
	}
}

func (m model) Init() tea.Cmd {
	m.cpu.LoadProgram(m.program, m.offset)
	m.cpu.ProgramCounter = m.offset
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.pending != "" {
		switch keyMsg.Type {
		case tea.KeyEnter:
			cmd := m.pending + " " + m.input.String()
			m.pending = ""
			m.runCommand(cmd)
			m.input.Reset()
		case tea.KeyEsc:
			m.pending = ""
			m.input.Reset()
		case tea.KeyBackspace:
			s := m.input.String()
			if len(s) > 0 {
				m.input.Reset()
				m.input.WriteString(s[:len(s)-1])
			}
		default:
			m.input.WriteString(keyMsg.String())
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "b":
		m.pending = "B"
	case "d":
		m.pending = "D"
	case "q":
		m.runCommand("Q")
		return m, tea.Quit
	case "s":
		m.runCommand("S")
		m.cpu.Step()
	case "t":
		m.runCommand("T")
	case "x":
		m.runCommand("X")
		for !m.cpu.halted && !m.cpu.breakpoints[m.cpu.ProgramCounter] {
			m.cpu.Step()
		}
	case "?":
		m.note("? B<hex> D<hex> Q S T X")
	}
	return m, nil
}

// runCommand drives ExecuteCommand and appends a status line describing
// what happened; stepping/resuming itself is handled by the caller, since
// the bubbletea front-end drives the CPU directly rather than through Run.
func (m *model) runCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 2 && strings.ToUpper(fields[0]) == "D" {
		addr, err := strconv.ParseUint(fields[1], 16, 16)
		if err == nil {
			m.note(m.cpu.DumpMemory(uint16(addr)))
			return
		}
	}
	m.cpu.ExecuteCommand(cmd)
	m.note(cmd)
}

func (m model) registerStatus() string {
	var flags strings.Builder
	for _, f := range []bool{
		m.cpu.Flags.Negative, m.cpu.Flags.Overflow, m.cpu.Flags.Unused, m.cpu.Flags.B,
		m.cpu.Flags.Decimal, m.cpu.Flags.DisableInterrupt, m.cpu.Flags.Zero, m.cpu.Flags.Carry,
	} {
		if f {
			flags.WriteString("1 ")
		} else {
			flags.WriteString("0 ")
		}
	}
	return fmt.Sprintf(
		"PC:%04X  A:%02X X:%02X Y:%02X SP:%02X  CYC:%d\nN V U B D I Z C\n%s",
		m.cpu.ProgramCounter, m.cpu.Accumulator, m.cpu.X, m.cpu.Y, m.cpu.Stack, m.cpu.Cycles,
		flags.String(),
	)
}

func (m model) View() string {
	disasm := Disassemble(m.cpu, m.cpu.ProgramCounter)
	prompt := "b/d/q/s/t/x/? "
	if m.pending != "" {
		prompt = m.pending + " " + m.input.String() + "_"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		spew.Sdump(struct {
			PC     uint16
			Disasm string
		}{m.cpu.ProgramCounter, disasm}),
		m.registerStatus(),
		strings.Join(m.log, "\n"),
		prompt,
	)
}

// Debug loads program into memory at offset and starts the interactive
// terminal debugger.
func (c *Cpu) Debug(program []byte, offset uint16) error {
	_, err := tea.NewProgram(model{
		cpu:     c,
		program: program,
		offset:  offset,
	}).Run()
	return err
}

// Package mem provides the flat 64 KiB memory bus a Cpu reads and writes
// through. There is exactly one Bus per machine; no mirroring, no bank
// switching, no peripheral mapping.
package mem

// A Bus is the central (global) object a Cpu is attached to. It owns the
// entire addressable range (0x0000-0xffff) as a single byte array.
//
// One or more components can be connected to a Bus by means of a pointer;
// e.g. Cpu.Bus = &Bus{}.
type Bus struct {
	FakeRam [64 * 1024]byte // 64 kB, zeroed on init
}

// Write stores data at addr. Never fails; addr wraps implicitly via the
// uint16 type.
func (b *Bus) Write(addr uint16, data byte) {
	b.FakeRam[addr] = data
}

// Read returns the byte at addr. The readonly flag exists for callers that
// want to distinguish side-effecting reads from passive inspection (e.g. a
// disassembler); this Bus has no read side effects so the flag is accepted
// but unused.
func (b *Bus) Read(addr uint16, readonly bool) byte {
	return b.FakeRam[addr]
}

// Read16 returns the little-endian word at addr: low byte at addr, high
// byte at addr+1, both wrapping within the 16-bit address space.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read(addr, true))
	hi := uint16(b.Read(addr+1, true))
	return hi<<8 | lo
}

// Read16Bug reproduces the 6502's JMP-indirect page-wrap bug: the high
// byte is fetched from (addr & 0xff00)|((addr+1) & 0x00ff) instead of
// addr+1, so a pointer ending in 0xff wraps to the start of the same page
// rather than advancing into the next one. Used exclusively by indirect
// JMP.
func (b *Bus) Read16Bug(addr uint16) uint16 {
	lo := uint16(b.Read(addr, true))
	hiAddr := (addr & 0xff00) | ((addr + 1) & 0x00ff)
	hi := uint16(b.Read(hiAddr, true))
	return hi<<8 | lo
}

// Write16 stores a little-endian word: low byte at addr, high byte at
// addr+1.
func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, byte(v))
	b.Write(addr+1, byte(v>>8))
}

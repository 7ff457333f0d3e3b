// memory_decoder.go - ROM/RAM page decoding for the H89 address space (spec.md C7)

package main

// MemoryPage is one contiguous, independently write-protectable region of
// the 64KiB address space.
type MemoryPage struct {
	Base       uint16
	Data       []byte
	ReadOnly   bool
	// WriteGuard, if set, is consulted on every write in addition to
	// ReadOnly; no card in this core installs one.
	WriteGuard func(addr uint16) bool
}

func (p *MemoryPage) contains(addr uint16) bool {
	return addr >= p.Base && int(addr) < int(p.Base)+len(p.Data)
}

func (p *MemoryPage) writable(addr uint16) bool {
	if p.ReadOnly {
		return false
	}
	if p.WriteGuard != nil && p.WriteGuard(addr) {
		return false
	}
	return true
}

// MemoryDecoder maps 16-bit addresses to a byte in one of its pages, and can
// swap the low 8KiB between ROM and RAM at any time (the "ORG 0" mod, driven
// by the GPP's disable-ROM bit, original_source GeneralPurposePort.cpp).
//
// Invariant (spec.md §3): at any moment every address reads the page
// selected by the current decoder configuration; writes to read-only pages
// are silently discarded.
type MemoryDecoder struct {
	rom     []byte // low 8KiB ROM image
	lowRAM  []byte // low 8KiB RAM, shadows rom when romEnabled is false
	ram     []byte // remainder of the 64KiB space, always RAM
	romEnabled bool
}

const lowBankSize = 0x2000

// NewMemoryDecoder builds a decoder with rom installed at 0x0000-0x1FFF and
// RAM filling the rest of the 64KiB space.
func NewMemoryDecoder(rom []byte) *MemoryDecoder {
	d := &MemoryDecoder{
		rom:        make([]byte, lowBankSize),
		lowRAM:     make([]byte, lowBankSize),
		ram:        make([]byte, 0x10000-lowBankSize),
		romEnabled: true,
	}
	copy(d.rom, rom)
	return d
}

// SetROMEnabled toggles whether the low 8KiB reads from ROM (true) or RAM
// (false). Writes to the low 8KiB always land in lowRAM regardless of this
// flag, mirroring real H89 "ORG 0" hardware: RAM underlies the ROM even when
// the ROM is mapped in for reads.
func (d *MemoryDecoder) SetROMEnabled(on bool) {
	d.romEnabled = on
}

func (d *MemoryDecoder) ROMEnabled() bool {
	return d.romEnabled
}

// ReadByte returns the byte visible at addr given the current configuration.
func (d *MemoryDecoder) ReadByte(addr uint16) byte {
	if addr < lowBankSize {
		if d.romEnabled {
			return d.rom[addr]
		}
		return d.lowRAM[addr]
	}
	return d.ram[addr-lowBankSize]
}

// WriteByte writes to RAM; writes below 8KiB always land in the shadow RAM
// bank, never the ROM image, and are visible once ROM is disabled.
func (d *MemoryDecoder) WriteByte(addr uint16, val byte) {
	if addr < lowBankSize {
		d.lowRAM[addr] = val
		return
	}
	d.ram[addr-lowBankSize] = val
}

// AddressBus is the CPU-facing façade over the memory decoder (spec.md C7).
// It also handles the interrupt-acknowledge special case: during IM 0/1/2
// vector fetch the byte comes from the interrupt controller, not memory.
type AddressBus struct {
	decoder *MemoryDecoder
	ic      *InterruptController
}

func NewAddressBus(decoder *MemoryDecoder, ic *InterruptController) *AddressBus {
	return &AddressBus{decoder: decoder, ic: ic}
}

// ReadByte forwards to the decoder, except when interruptAck is true: then
// it returns the interrupt controller's injected opcode byte instead
// (spec.md §4.5).
func (b *AddressBus) ReadByte(addr uint16, interruptAck bool) byte {
	if interruptAck {
		return b.ic.ReadDataBus()
	}
	return b.decoder.ReadByte(addr)
}

// WriteByte always forwards to the decoder.
func (b *AddressBus) WriteByte(addr uint16, val byte) {
	b.decoder.WriteByte(addr, val)
}

// Install swaps in a new decoder, e.g. after a configuration reset.
func (b *AddressBus) Install(decoder *MemoryDecoder) {
	b.decoder = decoder
}

func (b *AddressBus) Decoder() *MemoryDecoder {
	return b.decoder
}

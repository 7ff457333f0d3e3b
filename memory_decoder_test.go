package main

import "testing"

func TestMemoryDecoderROMShadowing(t *testing.T) {
	rom := make([]byte, lowBankSize)
	rom[0] = 0xAA
	d := NewMemoryDecoder(rom)

	if got := d.ReadByte(0); got != 0xAA {
		t.Fatalf("ReadByte(0) with ROM enabled = %#x, want 0xAA", got)
	}

	// Writes always land in the shadow RAM, never the ROM image.
	d.WriteByte(0, 0x11)
	if got := d.ReadByte(0); got != 0xAA {
		t.Errorf("ReadByte(0) after write, ROM still enabled = %#x, want unchanged 0xAA", got)
	}

	d.SetROMEnabled(false)
	if got := d.ReadByte(0); got != 0x11 {
		t.Errorf("ReadByte(0) with ROM disabled = %#x, want shadow RAM value 0x11", got)
	}

	d.SetROMEnabled(true)
	if got := d.ReadByte(0); got != 0xAA {
		t.Errorf("ReadByte(0) with ROM re-enabled = %#x, want 0xAA again", got)
	}
}

func TestMemoryDecoderHighRAM(t *testing.T) {
	d := NewMemoryDecoder(nil)
	d.WriteByte(0x4000, 0x77)
	if got := d.ReadByte(0x4000); got != 0x77 {
		t.Errorf("ReadByte(0x4000) = %#x, want 0x77", got)
	}
	if got := d.ReadByte(0xFFFF); got != 0 {
		t.Errorf("ReadByte(0xFFFF) of fresh RAM = %#x, want 0", got)
	}
}

func TestMemoryPageWriteGuard(t *testing.T) {
	guarded := false
	p := &MemoryPage{
		Base: 0,
		Data: make([]byte, 16),
		WriteGuard: func(addr uint16) bool {
			return guarded
		},
	}
	if !p.writable(5) {
		t.Fatal("expected page writable when guard returns false")
	}
	guarded = true
	if p.writable(5) {
		t.Fatal("expected page not writable once guard returns true")
	}
}

func TestMemoryPageReadOnlyOverridesGuard(t *testing.T) {
	p := &MemoryPage{Base: 0, Data: make([]byte, 4), ReadOnly: true}
	if p.writable(0) {
		t.Fatal("read-only page must never be writable")
	}
}

func TestAddressBusInterruptAckBypassesMemory(t *testing.T) {
	rom := make([]byte, lowBankSize)
	rom[0] = 0x00
	decoder := NewMemoryDecoder(rom)
	cpu := &fakeCPULine{}
	ic := NewInterruptController(cpu)
	ic.RaiseInterrupt(2)

	bus := NewAddressBus(decoder, ic)

	want := ic.ReadDataBus()
	if got := bus.ReadByte(0, true); got != want {
		t.Errorf("ReadByte(0, true) = %#x, want interrupt controller's %#x", got, want)
	}
	if got := bus.ReadByte(0, false); got != 0x00 {
		t.Errorf("ReadByte(0, false) = %#x, want memory's 0x00", got)
	}
}

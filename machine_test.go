package main

import (
	"testing"
	"time"
)

func TestNewMachineWiresCPUAndRunsInstructions(t *testing.T) {
	rom := make([]byte, 8192)
	rom[0] = 0x00 // NOP
	m := NewMachine(rom, DiscardLogger())

	if m.cpu.PC != 0 {
		t.Fatalf("PC after Reset = %#x, want 0", m.cpu.PC)
	}

	m.Step()
	if m.cpu.PC == 0 {
		t.Error("Step() should have advanced the CPU past the reset vector")
	}
}

func TestMachineConnectDriveRegistersIdentAndClockUser(t *testing.T) {
	rom := make([]byte, 8192)
	m := NewMachine(rom, DiscardLogger())
	drive := NewFloppyDrive(1, 40, Media525Inch, m.clock)

	if err := m.ConnectDrive("H37", 0, drive); err != nil {
		t.Fatalf("ConnectDrive: %v", err)
	}

	got, ok := m.Drive("H37-1")
	if !ok || got != drive {
		t.Fatalf("Drive(%q) = (%v, %v), want the connected drive", "H37-1", got, ok)
	}

	idents := m.DriveIdents()
	if len(idents) != 1 || idents[0] != "H37-1" {
		t.Errorf("DriveIdents() = %v, want [H37-1]", idents)
	}
}

func TestMachineConnectDriveRejectsUnknownController(t *testing.T) {
	rom := make([]byte, 8192)
	m := NewMachine(rom, DiscardLogger())
	drive := NewFloppyDrive(1, 40, Media525Inch, m.clock)

	if err := m.ConnectDrive("BOGUS", 0, drive); err == nil {
		t.Error("expected an error connecting to an unknown controller name")
	}
}

func TestMachineSetFastSpeedDoublesTicksPerClock(t *testing.T) {
	rom := make([]byte, 8192)
	m := NewMachine(rom, DiscardLogger())

	m.SetFastSpeed(true)
	if m.cpu.ticksPerClock != h89TicksPerTimer*2 {
		t.Errorf("ticksPerClock after fast speed = %d, want %d", m.cpu.ticksPerClock, h89TicksPerTimer*2)
	}

	m.SetFastSpeed(false)
	if m.cpu.ticksPerClock != h89TicksPerTimer {
		t.Errorf("ticksPerClock after normal speed = %d, want %d", m.cpu.ticksPerClock, h89TicksPerTimer)
	}
}

func TestMachineSetROMEnabledTogglesDecoder(t *testing.T) {
	rom := make([]byte, 8192)
	rom[0] = 0xAA
	m := NewMachine(rom, DiscardLogger())

	m.mem.WriteByte(0x0000, 0x55) // while ROM is enabled, this lands in shadow RAM
	if got := m.mem.ReadByte(0x0000, false); got != 0xAA {
		t.Fatalf("ROM read with ROM enabled = %#x, want 0xAA", got)
	}

	m.SetROMEnabled(false)
	if got := m.mem.ReadByte(0x0000, false); got != 0x55 {
		t.Errorf("read after disabling ROM = %#x, want the shadowed RAM write 0x55", got)
	}
}

func TestMachineRunAndStop(t *testing.T) {
	rom := make([]byte, 8192) // all NOPs
	m := NewMachine(rom, DiscardLogger())

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	// Stop only cancels a Run that has started, so wait for it first.
	for {
		m.Lock()
		running := m.running
		m.Unlock()
		if running {
			break
		}
		time.Sleep(time.Millisecond)
	}

	m.Stop()
	<-done // Run should observe the cancelled context and return
}

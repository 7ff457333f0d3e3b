package main

import "testing"

type fakeCPULine struct {
	raised int
	lowered int
}

func (f *fakeCPULine) RaiseINT() { f.raised++ }
func (f *fakeCPULine) LowerINT() { f.lowered++ }

type fakeResponder struct {
	active  bool
	opcode  byte
	claimed bool
}

func (f *fakeResponder) Active() bool                     { return f.active }
func (f *fakeResponder) ReadDataBus() (byte, bool)        { return f.opcode, f.claimed }

func TestInterruptControllerRaiseLower(t *testing.T) {
	cpu := &fakeCPULine{}
	ic := NewInterruptController(cpu)

	ic.RaiseInterrupt(3)
	if cpu.raised != 1 {
		t.Fatalf("raised = %d, want 1", cpu.raised)
	}

	ic.RaiseInterrupt(5)
	ic.LowerInterrupt(3)
	if cpu.lowered != 0 {
		t.Fatalf("lowered = %d, want 0 (level 5 still set)", cpu.lowered)
	}

	ic.LowerInterrupt(5)
	if cpu.lowered != 1 {
		t.Fatalf("lowered = %d, want 1", cpu.lowered)
	}
}

func TestInterruptControllerDefaultVector(t *testing.T) {
	cpu := &fakeCPULine{}
	ic := NewInterruptController(cpu)

	if got := ic.ReadDataBus(); got != 0xC7 {
		t.Errorf("ReadDataBus with nothing latched = %#x, want 0xC7", got)
	}

	ic.RaiseInterrupt(2)
	ic.RaiseInterrupt(5)
	if got := ic.ReadDataBus(); got != 0xC7|(5<<3) {
		t.Errorf("ReadDataBus = %#x, want highest-level RST %#x", got, 0xC7|(5<<3))
	}
}

func TestInterruptControllerResponderFirstRefusal(t *testing.T) {
	cpu := &fakeCPULine{}
	ic := NewInterruptController(cpu)
	ic.RaiseInterrupt(4)

	responder := &fakeResponder{active: true, opcode: 0xFB, claimed: true}
	ic.AddResponder(responder)

	if got := ic.ReadDataBus(); got != 0xFB {
		t.Errorf("ReadDataBus = %#x, want responder's claimed opcode 0xFB", got)
	}
}

func TestInterruptControllerResponderActiveRaisesLine(t *testing.T) {
	cpu := &fakeCPULine{}
	ic := NewInterruptController(cpu)
	responder := &fakeResponder{active: true}
	ic.AddResponder(responder)

	ic.Refresh()
	if cpu.raised != 1 {
		t.Errorf("raised = %d, want 1 (active responder with empty latch)", cpu.raised)
	}

	responder.active = false
	ic.Refresh()
	if cpu.lowered != 1 {
		t.Errorf("lowered = %d, want 1 once responder goes inactive", cpu.lowered)
	}
}

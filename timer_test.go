package main

import "testing"

type fakeTickTopUp struct {
	calls int
}

func (f *fakeTickTopUp) AddClockTicks() { f.calls++ }

func TestTimerFireAdvancesClockRegardlessOfEnable(t *testing.T) {
	clock := NewWallClock(1000, 100)
	cpu := &fakeTickTopUp{}
	cpuLine := &fakeCPULine{}
	ic := NewInterruptController(cpuLine)
	timer := NewTimer(1, clock, cpu, ic)

	timer.Fire()

	if cpu.calls != 1 {
		t.Errorf("AddClockTicks calls = %d, want 1", cpu.calls)
	}
	if clock.TotalTicks() != 100 {
		t.Errorf("clock ticks after Fire = %d, want 100", clock.TotalTicks())
	}
	if cpuLine.raised != 0 {
		t.Errorf("interrupt raised = %d, want 0 (timer interrupt disabled by default)", cpuLine.raised)
	}
}

func TestTimerFireRaisesInterruptWhenEnabled(t *testing.T) {
	clock := NewWallClock(1000, 100)
	cpu := &fakeTickTopUp{}
	cpuLine := &fakeCPULine{}
	ic := NewInterruptController(cpuLine)
	timer := NewTimer(3, clock, cpu, ic)

	timer.SetInterruptEnabled(true)
	timer.Fire()

	if cpuLine.raised != 1 {
		t.Errorf("interrupt raised = %d, want 1", cpuLine.raised)
	}
}

func TestTimerDisablingLowersInterrupt(t *testing.T) {
	clock := NewWallClock(1000, 100)
	cpu := &fakeTickTopUp{}
	cpuLine := &fakeCPULine{}
	ic := NewInterruptController(cpuLine)
	timer := NewTimer(2, clock, cpu, ic)

	timer.SetInterruptEnabled(true)
	timer.Fire()
	timer.SetInterruptEnabled(false)

	if cpuLine.lowered == 0 {
		t.Error("expected LowerINT to have been called when disabling the timer interrupt")
	}
}

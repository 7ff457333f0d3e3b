// timer.go - 2ms periodic interrupt source (spec.md C10/§4.8)

package main

// CPUTickTopUp is the CPU-side hook the real-time timer calls each 2ms
// expiry to refill the tick budget to exactly ticksPerClock - "not by
// addition, prevents accumulation while blocked on IO" (spec.md §4.1).
type CPUTickTopUp interface {
	AddClockTicks()
}

// Timer fires a 2ms periodic interrupt, gated by the GPP's timer-enable bit
// (spec.md §4.8). It also drives the wall clock's addTimerEvent and the
// CPU's tick top-up on every expiry, regardless of whether the interrupt
// itself is enabled - virtual time must keep moving even with the interrupt
// masked.
type Timer struct {
	level   byte
	enabled bool
	clock   *WallClock
	cpu     CPUTickTopUp
	ic      *InterruptController
}

// NewTimer wires the timer to the wall clock, the CPU's tick top-up, and the
// interrupt controller. level is the interrupt level it raises (spec.md §6:
// "timer = 1" by default, configurable).
func NewTimer(level byte, clock *WallClock, cpu CPUTickTopUp, ic *InterruptController) *Timer {
	return &Timer{level: level, clock: clock, cpu: cpu, ic: ic}
}

func (t *Timer) InterruptLevel() byte {
	return t.level
}

// SetInterruptEnabled is the GPP output-byte listener (spec.md §4.8).
func (t *Timer) SetInterruptEnabled(on bool) {
	t.enabled = on
	if !on {
		t.ic.LowerInterrupt(t.level)
	}
}

// Fire is called by the real-time 2ms timer thread (spec.md §5: the timer
// thread acquires the system mutex before calling this).
func (t *Timer) Fire() {
	t.clock.AddTimerEvent()
	t.cpu.AddClockTicks()
	if t.enabled {
		t.ic.RaiseInterrupt(t.level)
	}
}

// clock.go - wall clock for the H89 core

package main

import "sync"

// ClockUser is the interface clock-driven peripherals implement. notification
// fires once per batch of elapsed T-states, in registration order (spec.md
// §4.2, §5 "ordering guarantees").
type ClockUser interface {
	Notification(ticks int)
}

// WallClock is the authoritative virtual-time counter (spec.md C1). It is
// fed by the CPU's per-instruction tick debits and by the real-time timer's
// 2ms expiry, and fans ticks out to every registered user.
//
// Grounded on original_source/VirtualH89/Src/WallClock.* (getTicksPerSecond,
// addTicks, addTimerEvent) and the teacher's tick-accounting style in
// cpu_z80.go (CPU.tick debits a budget and reports elapsed T-states).
type WallClock struct {
	mu sync.Mutex

	ticksPerSecond int
	ticksPerTimer  int // 2ms worth of ticks, e.g. 4096 at 2.048MHz

	totalTicks   uint64
	intraTimer   int // ticks accumulated since the last 2ms boundary
	users        []ClockUser
}

// NewWallClock builds a clock running at ticksPerSecond T-states/second.
// ticksPerTimer is the number of ticks in one 2ms timer period.
func NewWallClock(ticksPerSecond, ticksPerTimer int) *WallClock {
	return &WallClock{
		ticksPerSecond: ticksPerSecond,
		ticksPerTimer:  ticksPerTimer,
	}
}

// Register adds a clock user. Order of registration is the order
// notifications are delivered in (spec.md §5).
func (w *WallClock) Register(u ClockUser) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.users = append(w.users, u)
}

// TicksPerSecond returns the configured tick rate, used by components that
// convert milliseconds to ticks (e.g. WD179x step-rate selection).
func (w *WallClock) TicksPerSecond() int {
	return w.ticksPerSecond
}

// AddTicks advances virtual time by n T-states and notifies every registered
// user. Must be called with the system mutex held (see Machine).
func (w *WallClock) AddTicks(n int) {
	if n <= 0 {
		return
	}
	w.totalTicks += uint64(n)
	w.intraTimer += n
	for _, u := range w.users {
		u.Notification(n)
	}
}

// AddTimerEvent is invoked by the real-time 2ms timer interrupt. It rounds
// the intra-timer counter up to the next 2ms boundary so virtual time stays
// monotone even when the CPU under-ran its slice (spec.md §4.2).
func (w *WallClock) AddTimerEvent() {
	if w.intraTimer < w.ticksPerTimer {
		w.AddTicks(w.ticksPerTimer - w.intraTimer)
	}
	w.intraTimer -= w.ticksPerTimer
	if w.intraTimer < 0 {
		w.intraTimer = 0
	}
}

// TotalTicks returns the cumulative tick count, for debugging/dump commands.
func (w *WallClock) TotalTicks() uint64 {
	return w.totalTicks
}

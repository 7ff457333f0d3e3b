// interrupt_controller.go - H89 interrupt controller (spec.md C8/§4.7)

package main

// InterruptResponder lets a card override the default RST-xx response on
// interrupt acknowledge, e.g. to inject EI (0xFB) on a pending DRQ, or a
// specific RST on a pending INTRQ, ahead of the default daisy-chain
// fallback. The disk controllers in this core register no responder; they
// raise plain latch levels instead. Grounded on
// original_source/VirtualH89/Src/H37InterruptController.cpp.
type InterruptResponder interface {
	// Active reports whether this responder currently wants to assert INT,
	// independent of the controller's own 8-bit latch.
	Active() bool
	// ReadDataBus returns the opcode byte this responder wants injected on
	// interrupt acknowledge, and true if it claims the ack. A responder
	// that is Active() but wants the default RST form still returns false
	// here so the controller falls through to its own encoding.
	ReadDataBus() (opcode byte, claimed bool)
}

// CPUInterruptLine is the subset of the Z80 the interrupt controller drives.
type CPUInterruptLine interface {
	RaiseINT()
	LowerINT()
}

// InterruptController latches up to 8 interrupt levels and produces the
// RST-xx opcode byte the CPU's interrupt-acknowledge cycle reads, per
// spec.md §3/§4.7. Daisy-chained responders (disk controller cards) get
// first refusal.
type InterruptController struct {
	level byte // 8-bit latch, one bit per level 0-7
	cpu   CPUInterruptLine

	chain []InterruptResponder
}

// NewInterruptController wires the controller to the CPU's interrupt line.
func NewInterruptController(cpu CPUInterruptLine) *InterruptController {
	return &InterruptController{cpu: cpu}
}

// AddResponder registers a daisy-chained card. Order matters: the first
// responder that claims the acknowledge wins.
func (ic *InterruptController) AddResponder(r InterruptResponder) {
	ic.chain = append(ic.chain, r)
}

func (ic *InterruptController) anyResponderActive() bool {
	for _, r := range ic.chain {
		if r.Active() {
			return true
		}
	}
	return false
}

func (ic *InterruptController) updateLine() {
	if ic.level != 0 || ic.anyResponderActive() {
		ic.cpu.RaiseINT()
	} else {
		ic.cpu.LowerINT()
	}
}

// RaiseInterrupt sets bit `level` (0-7) in the latch and asserts INT.
func (ic *InterruptController) RaiseInterrupt(level byte) {
	if level > 7 {
		return
	}
	ic.level |= 1 << level
	ic.updateLine()
}

// LowerInterrupt clears bit `level`. INT deasserts only if the latch is now
// zero AND no daisy-chained responder is still active.
func (ic *InterruptController) LowerInterrupt(level byte) {
	if level > 7 {
		return
	}
	ic.level &^= 1 << level
	ic.updateLine()
}

// Refresh re-evaluates the INT line without mutating the latch; used after a
// responder's own internal state (e.g. DRQ) changes.
func (ic *InterruptController) Refresh() {
	ic.updateLine()
}

// ReadDataBus is invoked by the CPU during interrupt acknowledge (IM 0). Each
// daisy-chained responder gets first refusal; failing that, the default is
// 0xC7 | (highest set level << 3), i.e. RST n.
func (ic *InterruptController) ReadDataBus() byte {
	for _, r := range ic.chain {
		if op, claimed := r.ReadDataBus(); claimed {
			return op
		}
	}

	for level := 7; level >= 0; level-- {
		if ic.level&(1<<uint(level)) != 0 {
			return 0xC7 | byte(level<<3)
		}
	}
	return 0xC7
}

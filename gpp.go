// gpp.go - General Purpose Port: dip switches in, mode control bits out
// (spec.md §6, port 0xF2). Grounded on
// original_source/Src/GeneralPurposePort.cpp.

package main

// GPPHost is the set of machine-level callbacks the GPP's control bits
// drive: ROM bank disable, CPU speed select, and H17 side select. The
// timer's interrupt enable (spec.md §4.8 "toggled via a listener on the
// general-purpose-port output byte") is driven on the *Timer directly.
type GPPHost interface {
	SetROMEnabled(on bool)
	SetFastSpeed(on bool)
	SelectH17Side(side int)
}

// Bit layout for the control byte written to the GPP. The real MTR-89/90
// ROM monitors used a layout specific to that revision; original_source
// left two of these bit positions unresolved (no constant definitions were
// retrievable), so this assigns a self-consistent layout implementing the
// four documented behaviours from spec.md §6 and documents the choice here
// rather than guessing a specific ROM revision's exact bit numbers.
const (
	gppBitSingleStep  = 0x01
	gppBitH17Side     = 0x02
	gppBitFastSpeed   = 0x04
	gppBitTimerEnable = 0x20
	gppBitROMDisable  = 0x40
)

// GeneralPurposePort is a single 8-bit port: reads return the dip switches,
// writes latch the control byte and fan out side effects.
type GeneralPurposePort struct {
	base   byte
	dipsw  byte
	bits   byte
	host   GPPHost
	timer  *Timer
	ic     *InterruptController
}

func NewGeneralPurposePort(base byte, dipsw byte, host GPPHost, timer *Timer, ic *InterruptController) *GeneralPurposePort {
	g := &GeneralPurposePort{base: base, dipsw: dipsw, host: host, timer: timer, ic: ic}
	return g
}

func (g *GeneralPurposePort) In(addr byte) byte {
	return g.dipsw
}

func (g *GeneralPurposePort) Out(addr byte, val byte) {
	// Per the manual, writing to this port clears the timer's interrupt
	// level (original_source GeneralPurposePort.cpp: h89.lowerINT(1)).
	g.ic.LowerInterrupt(g.timer.InterruptLevel())

	diffs := g.bits ^ val
	g.bits = val

	g.timer.SetInterruptEnabled(val&gppBitTimerEnable != 0)

	if diffs&gppBitROMDisable != 0 {
		g.host.SetROMEnabled(val&gppBitROMDisable == 0)
	}

	if diffs&gppBitFastSpeed != 0 {
		g.host.SetFastSpeed(val&gppBitFastSpeed != 0)
	}

	if val&gppBitH17Side != 0 {
		g.host.SelectH17Side(1)
	} else {
		g.host.SelectH17Side(0)
	}
}

func (g *GeneralPurposePort) Reset() {
	g.bits = 0
	g.timer.SetInterruptEnabled(false)
	g.host.SetROMEnabled(true)
	g.host.SetFastSpeed(false)
}

func (g *GeneralPurposePort) BaseAddress() byte { return g.base }
func (g *GeneralPurposePort) NumPorts() byte    { return 1 }

// SetDipSwitches updates the simulated dip-switch byte the port returns on
// read, e.g. from the `gpp_dipsw` config key (spec.md §6).
func (g *GeneralPurposePort) SetDipSwitches(v byte) {
	g.dipsw = v
}

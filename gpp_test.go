package main

import "testing"

type fakeGPPHost struct {
	romEnabled  bool
	fastSpeed   bool
	h17Side     int
	romCalls    int
	speedCalls  int
}

func (f *fakeGPPHost) SetROMEnabled(on bool) { f.romEnabled = on; f.romCalls++ }
func (f *fakeGPPHost) SetFastSpeed(on bool)  { f.fastSpeed = on; f.speedCalls++ }
func (f *fakeGPPHost) SelectH17Side(side int) { f.h17Side = side }

func newTestGPP() (*GeneralPurposePort, *fakeGPPHost, *fakeCPULine) {
	host := &fakeGPPHost{}
	cpuLine := &fakeCPULine{}
	ic := NewInterruptController(cpuLine)
	timer := NewTimer(1, NewWallClock(1000, 100), &fakeTickTopUp{}, ic)
	gpp := NewGeneralPurposePort(0xf2, 0b10101010, host, timer, ic)
	return gpp, host, cpuLine
}

func TestGPPInReturnsDipSwitches(t *testing.T) {
	gpp, _, _ := newTestGPP()
	if got := gpp.In(0xf2); got != 0b10101010 {
		t.Errorf("In() = %08b, want %08b", got, 0b10101010)
	}
	gpp.SetDipSwitches(0b00001111)
	if got := gpp.In(0xf2); got != 0b00001111 {
		t.Errorf("In() after SetDipSwitches = %08b, want %08b", got, 0b00001111)
	}
}

func TestGPPOutTogglesROMAndSpeedOnlyOnChange(t *testing.T) {
	gpp, host, _ := newTestGPP()

	gpp.Out(0xf2, gppBitROMDisable)
	if host.romCalls != 1 || host.romEnabled {
		t.Fatalf("after setting ROM-disable bit: calls=%d enabled=%v, want calls=1 enabled=false", host.romCalls, host.romEnabled)
	}

	// Writing the same bits again must not re-trigger the host callback.
	gpp.Out(0xf2, gppBitROMDisable)
	if host.romCalls != 1 {
		t.Errorf("romCalls after repeat write = %d, want 1 (no change)", host.romCalls)
	}

	gpp.Out(0xf2, 0)
	if host.romCalls != 2 || !host.romEnabled {
		t.Errorf("after clearing ROM-disable bit: calls=%d enabled=%v, want calls=2 enabled=true", host.romCalls, host.romEnabled)
	}
}

func TestGPPOutFastSpeedAndH17Side(t *testing.T) {
	gpp, host, _ := newTestGPP()

	gpp.Out(0xf2, gppBitFastSpeed|gppBitH17Side)
	if !host.fastSpeed {
		t.Error("expected fast speed enabled")
	}
	if host.h17Side != 1 {
		t.Errorf("h17Side = %d, want 1", host.h17Side)
	}

	gpp.Out(0xf2, 0)
	if host.fastSpeed {
		t.Error("expected fast speed disabled")
	}
	if host.h17Side != 0 {
		t.Errorf("h17Side = %d, want 0", host.h17Side)
	}
}

func TestGPPResetRestoresDefaults(t *testing.T) {
	gpp, host, _ := newTestGPP()
	gpp.Out(0xf2, gppBitROMDisable|gppBitFastSpeed)
	gpp.Reset()

	if !host.romEnabled {
		t.Error("Reset should re-enable ROM")
	}
	if host.fastSpeed {
		t.Error("Reset should clear fast speed")
	}
}

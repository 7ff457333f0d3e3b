package main

import "testing"

type fakeNMIRaiser struct {
	count int
}

func (f *fakeNMIRaiser) RaiseNMI() { f.count++ }

func TestNMIPortReadRaisesNMI(t *testing.T) {
	nmi := &fakeNMIRaiser{}
	p := NewNMIPort(0xf0, 1, nmi)

	if got := p.In(0xf0); got != 0xff {
		t.Errorf("In() = %#x, want 0xff", got)
	}
	if nmi.count != 1 {
		t.Errorf("RaiseNMI calls = %d, want 1", nmi.count)
	}
}

func TestNMIPortWriteRaisesNMI(t *testing.T) {
	nmi := &fakeNMIRaiser{}
	p := NewNMIPort(0xfa, 1, nmi)

	p.Out(0xfa, 0x00)
	if nmi.count != 1 {
		t.Errorf("RaiseNMI calls = %d, want 1", nmi.count)
	}
}

package main

import "testing"

func TestH17ControllerAlwaysReportsNotReady(t *testing.T) {
	c := NewH17Controller(h17BasePort)
	if got := c.In(h17BasePort); got != 0x80 {
		t.Errorf("In() = %#x, want 0x80 (not-ready)", got)
	}
	c.Out(h17BasePort, 0xff) // stub: accepts writes without effect
	if got := c.In(h17BasePort); got != 0x80 {
		t.Errorf("In() after Out() = %#x, want still 0x80", got)
	}
}

func TestH17ControllerSelectSideTracksGPP(t *testing.T) {
	c := NewH17Controller(h17BasePort)
	c.SelectSide(1)
	if c.side != 1 {
		t.Errorf("side = %d, want 1", c.side)
	}
}

func TestH17ControllerIdentity(t *testing.T) {
	c := NewH17Controller(h17BasePort)
	if c.BaseAddress() != h17BasePort {
		t.Errorf("BaseAddress() = %#x, want %#x", c.BaseAddress(), h17BasePort)
	}
	if c.NumPorts() != h17NumPorts {
		t.Errorf("NumPorts() = %d, want %d", c.NumPorts(), h17NumPorts)
	}
}

package main

import "testing"

func newTestUART() (*UART8250, *fakeCPULine) {
	cpuLine := &fakeCPULine{}
	ic := NewInterruptController(cpuLine)
	return NewUART8250(0xe0, 2, ic), cpuLine
}

func TestUART8250ReceiveByteRaisesInterruptOnlyWhenEnabled(t *testing.T) {
	u, cpu := newTestUART()

	u.ReceiveByte(0x41)
	if cpu.raised != 0 {
		t.Error("receive interrupt should stay low while IER's receive-data bit is clear")
	}

	u.Out(0xe0+uartIER, uartIERReceiveData)
	u.ReceiveByte(0x42)
	if cpu.raised != 2 {
		t.Errorf("raised = %d, want 2 (once on enabling with 0x41 pending, once for 0x42)", cpu.raised)
	}
}

func TestUART8250ReadingRBRClearsPendingAndLowersInterrupt(t *testing.T) {
	u, cpu := newTestUART()
	u.Out(0xe0+uartIER, uartIERReceiveData)
	u.ReceiveByte(0x99)

	if got := u.In(0xe0 + uartIIR); got != uartIIRDataAvailable {
		t.Errorf("IIR = %#x, want data-available %#x", got, uartIIRDataAvailable)
	}

	got := u.In(0xe0 + uartRBR)
	if got != 0x99 {
		t.Fatalf("RBR = %#x, want 0x99", got)
	}
	if cpu.lowered == 0 {
		t.Error("reading RBR should lower the interrupt line")
	}
	if got := u.In(0xe0 + uartIIR); got != uartIIRNoInterrupt {
		t.Errorf("IIR after RBR read = %#x, want no-interrupt %#x", got, uartIIRNoInterrupt)
	}
}

func TestUART8250DLABGatesBaudDivisorAliasing(t *testing.T) {
	u, _ := newTestUART()

	u.Out(0xe0+uartLCR, 0x80) // set DLAB
	u.Out(0xe0+uartRBR, 0x0C) // LS baud divisor
	u.Out(0xe0+uartIER, 0x00) // MS baud divisor

	if got := u.In(0xe0 + uartRBR); got != 0x0C {
		t.Errorf("with DLAB set, RBR read should return the LS baud divisor, got %#x", got)
	}

	u.Out(0xe0+uartLCR, 0x03) // clear DLAB, 8 data bits
	if got := u.In(0xe0 + uartRBR); got != 0 {
		t.Errorf("with DLAB clear and no byte available, RBR should read 0, got %#x", got)
	}
}

func TestUART8250EnablingInterruptWithPendingByteRaisesImmediately(t *testing.T) {
	u, cpu := newTestUART()
	u.ReceiveByte(0x55) // arrives before the interrupt is enabled

	u.Out(0xe0+uartIER, uartIERReceiveData)

	if cpu.raised == 0 {
		t.Error("enabling the receive interrupt with a byte already pending should raise it immediately")
	}
}

func TestUART8250ResetClearsPendingState(t *testing.T) {
	u, _ := newTestUART()
	u.Out(0xe0+uartIER, uartIERReceiveData)
	u.ReceiveByte(0x20)

	u.Reset()

	if u.rxByteAvail {
		t.Error("Reset should clear a pending receive byte")
	}
	if got := u.In(0xe0 + uartMSR); got != uartMSRClearToSend|uartMSRDataSetReady {
		t.Errorf("MSR after Reset = %#x, want CTS|DSR", got)
	}
}

// uart_8250.go - INS8250 UART register shell (spec.md Non-goals: "8250
// UART internals" are out of scope; only the interrupt-raising surface is
// modeled).
//
// Grounded on original_source/VirtualH89/Src/INS8250.cpp: register offsets
// (RBR/IER/IIR/LCR/MCR/LSR/MSR), the DLAB-gated baud-divisor aliasing of
// RBR/IER, and the receive-interrupt-pending -> lowerInterrupt() path on
// RBR read.
package main

const (
	uart8250NumPorts = 8

	uartRBR = 0
	uartIER = 1
	uartIIR = 2
	uartLCR = 3
	uartMCR = 4
	uartLSR = 5
	uartMSR = 6

	uartIERReceiveData     byte = 0x01
	uartIIRDataAvailable   byte = 0x04
	uartIIRNoInterrupt     byte = 0x01
	uartMSRClearToSend     byte = 0x10
	uartMSRDataSetReady    byte = 0x20
)

// UART8250 models only the register-level surface that touches the
// interrupt controller; baud-rate generation, framing, and the actual
// byte stream are a front-end/console concern this core does not own.
type UART8250 struct {
	base     byte
	intLevel byte
	ic       *InterruptController

	dlab                    bool
	receiveInterruptEnabled bool
	receiveInterruptPending bool
	rxByteAvail             bool
	rxByte                  byte
	lsBaudDiv, msBaudDiv    byte
	lcr, mcr, lsr, msr      byte
}

func NewUART8250(base, intLevel byte, ic *InterruptController) *UART8250 {
	return &UART8250{base: base, intLevel: intLevel, ic: ic, msr: uartMSRClearToSend | uartMSRDataSetReady}
}

func (u *UART8250) BaseAddress() byte { return u.base }
func (u *UART8250) NumPorts() byte    { return uart8250NumPorts }

func (u *UART8250) Reset() {
	u.dlab = false
	u.receiveInterruptEnabled = false
	u.receiveInterruptPending = false
	u.rxByteAvail = false
	u.lsBaudDiv, u.msBaudDiv = 0, 0
	u.lcr, u.mcr, u.lsr = 0, 0, 0
	u.msr = uartMSRClearToSend | uartMSRDataSetReady
}

func (u *UART8250) In(addr byte) byte {
	offset := addr - u.base
	switch offset {
	case uartRBR:
		if u.dlab {
			return u.lsBaudDiv
		}
		if u.rxByteAvail {
			u.rxByteAvail = false
			u.receiveInterruptPending = false
			u.lowerInterrupt()
			return u.rxByte
		}
		return 0
	case uartIER:
		if u.dlab {
			return u.msBaudDiv
		}
		if u.receiveInterruptEnabled {
			return uartIERReceiveData
		}
		return 0
	case uartIIR:
		if u.receiveInterruptPending {
			return uartIIRDataAvailable
		}
		return uartIIRNoInterrupt
	case uartLCR:
		return u.lcr
	case uartMCR:
		return u.mcr
	case uartLSR:
		return u.lsr
	case uartMSR:
		return u.msr
	default:
		return 0
	}
}

func (u *UART8250) Out(addr, val byte) {
	offset := addr - u.base
	switch offset {
	case uartRBR:
		if u.dlab {
			u.lsBaudDiv = val
		}
		// transmit-register writes reach the console front end, out of
		// this core's scope.
	case uartIER:
		if u.dlab {
			u.msBaudDiv = val
		} else {
			u.receiveInterruptEnabled = val&uartIERReceiveData != 0
			if u.receiveInterruptEnabled && u.receiveInterruptPending {
				u.raiseInterrupt()
			}
		}
	case uartLCR:
		u.lcr = val
		u.dlab = val&0x80 != 0
	case uartMCR:
		u.mcr = val
	}
}

// ReceiveByte is the console front end's injection point for incoming
// serial data (spec.md §6 console protocol is a separate layer; this is
// the hook it would call through).
func (u *UART8250) ReceiveByte(b byte) {
	u.rxByte = b
	u.rxByteAvail = true
	u.receiveInterruptPending = true
	if u.receiveInterruptEnabled {
		u.raiseInterrupt()
	}
}

func (u *UART8250) raiseInterrupt() { u.ic.RaiseInterrupt(u.intLevel) }
func (u *UART8250) lowerInterrupt() { u.ic.LowerInterrupt(u.intLevel) }

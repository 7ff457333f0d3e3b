// disk_controller_h37.go - Heath H-37 soft-sectored controller (spec.md C5)
//
// Grounded on original_source/VirtualH89/Src/h37.cpp: 4 ports (Control,
// InterfaceControl, Status/Sector, Data/Track - the last two multiplexed by
// the InterfaceControl register's sector/track-select bit), a control
// register selecting drive 0-3, motor-on, FM/MFM, and interrupt/DRQ
// enables. Exact control-bit positions were not recoverable from the
// retrieved source (h37.h was not part of the retrieval pack, only the
// .cpp); the bit layout below is invented but internally consistent with
// the behaviour the .cpp describes - see DESIGN.md.
package main

const (
	h37NumPorts = 4
	h37NumDisks = 4
	h37IntrLevel = byte(3) // "z_89_37_Intr_c" per h37.cpp comments

	h37ControlOffset         = 0
	h37InterfaceControlOffset = 1
	h37StatusOrSectorOffset   = 2
	h37DataOrTrackOffset      = 3

	h37ctrlEnableIntReq  byte = 0x01
	h37ctrlEnableDrqInt  byte = 0x02
	h37ctrlSetMFM        byte = 0x04
	h37ctrlMotorsOn      byte = 0x08
	h37ctrlDrive0        byte = 0x10
	h37ctrlDrive1        byte = 0x20
	h37ctrlDrive2        byte = 0x40
	h37ctrlDrive3        byte = 0x80

	h37ifSelectSectorTrack byte = 0x01
)

// H37Controller is the Heath hard-sectored-era H-37 soft-sectored
// controller card: one WD1797 behind a drive-select/mode register.
type H37Controller struct {
	diskControllerBase
	controlReg   byte
	interfaceReg byte
	sectorTrackAccess bool
}

func NewH37Controller(base byte, ic *InterruptController) *H37Controller {
	h := &H37Controller{}
	h.diskControllerBase = diskControllerBase{
		base: base, numPorts: h37NumPorts, ic: ic, intLevel: h37IntrLevel, curDrive: -1,
	}
	h.wd = NewWD179x(0, h) // wd ports are addressed by offset directly below
	return h
}

func (h *H37Controller) BaseAddress() byte { return h.base }
func (h *H37Controller) NumPorts() byte    { return h37NumPorts }

func (h *H37Controller) Reset() {
	h.controlReg = 0
	h.interfaceReg = 0
	h.sectorTrackAccess = false
	h.intrqAllowed = false
	h.drqAllowed = false
	h.motorOn = false
	h.curDrive = -1
	h.wd.Reset()
}

func (h *H37Controller) In(addr byte) byte {
	offset := addr - h.base
	switch offset {
	case h37ControlOffset:
		return h.controlReg
	case h37InterfaceControlOffset:
		if h.sectorTrackAccess {
			return h.interfaceReg
		}
		return 0
	case h37StatusOrSectorOffset:
		if h.sectorTrackAccess {
			return h.wd.In(fdcSectorOffset)
		}
		return h.wd.In(fdcStatusOffset)
	case h37DataOrTrackOffset:
		if h.sectorTrackAccess {
			return h.wd.In(fdcTrackOffset)
		}
		return h.wd.In(fdcDataOffset)
	default:
		return 0
	}
}

func (h *H37Controller) Out(addr, val byte) {
	offset := addr - h.base
	switch offset {
	case h37ControlOffset:
		h.controlReg = val
		h.intrqAllowed = val&h37ctrlEnableIntReq != 0
		h.drqAllowed = val&h37ctrlEnableDrqInt != 0
		h.doubleDens = val&h37ctrlSetMFM != 0
		h.setMotor(val&h37ctrlMotorsOn != 0)

		switch {
		case val&h37ctrlDrive3 != 0:
			h.curDrive = 3
		case val&h37ctrlDrive2 != 0:
			h.curDrive = 2
		case val&h37ctrlDrive1 != 0:
			h.curDrive = 1
		case val&h37ctrlDrive0 != 0:
			h.curDrive = 0
		}

	case h37InterfaceControlOffset:
		h.interfaceReg = val
		h.sectorTrackAccess = val&h37ifSelectSectorTrack != 0

	case h37StatusOrSectorOffset:
		if h.sectorTrackAccess {
			h.wd.Out(fdcSectorOffset, val)
		} else {
			h.wd.Out(fdcCommandOffset, val)
		}

	case h37DataOrTrackOffset:
		if h.sectorTrackAccess {
			h.wd.Out(fdcTrackOffset, val)
		} else {
			h.wd.Out(fdcDataOffset, val)
		}
	}
}

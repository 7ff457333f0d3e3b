// disk_controller_mms77316.go - Magnolia Microsystems MMS77316
// soft-sectored controller (spec.md C5)
//
// Grounded on original_source/VirtualH89/Src/mms77316.{h,cpp}: base port
// 0x38, 8 drive units, a single control register at offset 0 and the
// WD1797 register block at offset 4, interrupt level 5 (MMS77316_Intr_c).
package main

const (
	mms77316NumPorts   = 8
	mms77316NumDisks   = 8
	mms77316BasePort   = 0x38
	mms77316IntrLevel  = byte(5)

	mms77316ControlOffset = 0
	mms77316WD1797Offset  = 4

	mms77316ctrlMotorsOn byte = 0x01
	mms77316ctrlMFM      byte = 0x02
	mms77316ctrlDriveSel byte = 0x07 // low 3 bits select one of 8 units
)

// MMS77316Controller wraps a WD1797 with a single control register
// selecting drive, motor, and density; unlike the H37 there is no
// sector/track multiplexing - all four WD register offsets are exposed
// directly starting at mms77316WD1797Offset.
type MMS77316Controller struct {
	diskControllerBase
	controlReg byte
}

func NewMMS77316Controller(ic *InterruptController) *MMS77316Controller {
	m := &MMS77316Controller{}
	m.diskControllerBase = diskControllerBase{
		base: mms77316BasePort, numPorts: mms77316NumPorts, ic: ic,
		intLevel: mms77316IntrLevel, curDrive: -1,
	}
	m.wd = NewWD179x(0, m)
	return m
}

func (m *MMS77316Controller) BaseAddress() byte { return m.base }
func (m *MMS77316Controller) NumPorts() byte    { return mms77316NumPorts }

func (m *MMS77316Controller) Reset() {
	m.controlReg = 0
	m.intrqAllowed = true // MMS77316 has no interrupt-enable gate; always on
	m.drqAllowed = true
	m.motorOn = false
	m.wd.Reset()
}

func (m *MMS77316Controller) In(addr byte) byte {
	offset := addr - m.base
	if offset >= mms77316WD1797Offset {
		return m.wd.In(offset - mms77316WD1797Offset)
	}
	switch offset {
	case mms77316ControlOffset:
		return m.controlReg
	default:
		return 0
	}
}

func (m *MMS77316Controller) Out(addr, val byte) {
	offset := addr - m.base
	if offset >= mms77316WD1797Offset {
		m.wd.Out(offset-mms77316WD1797Offset, val)
		return
	}
	switch offset {
	case mms77316ControlOffset:
		m.controlReg = val
		m.doubleDens = val&mms77316ctrlMFM != 0
		m.setMotor(val&mms77316ctrlMotorsOn != 0)
		m.curDrive = int(val & mms77316ctrlDriveSel)
	}
}

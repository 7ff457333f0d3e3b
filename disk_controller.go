// disk_controller.go - shared soft-sectored disk controller plumbing
// (spec.md C5), shared by the H37 and MMS77316 port-decoder variants.
//
// Grounded on original_source/VirtualH89/Src/h37.cpp and mms77316.cpp: both
// wrap one WD1797/WD179x chip behind a small number of additional ports
// (a control register selecting the current drive, motor-on, MFM/FM, and
// interrupt/DRQ gating; an interface register toggling sector/track vs.
// data/command register access).

package main

import "fmt"

const maxControllerDrives = 8

// diskControllerBase holds the WD179x instance and the drive table every
// concrete controller (H37, MMS77316) shares.
type diskControllerBase struct {
	base    byte
	numPorts byte
	wd      *WD179x
	drives  [maxControllerDrives]*FloppyDrive
	curDrive int // index into drives, or -1 if none selected

	intrqAllowed bool
	drqAllowed   bool
	motorOn      bool
	doubleDens   bool

	ic        *InterruptController
	intLevel  byte
	drqRaised bool
}

func (d *diskControllerBase) CurrentDrive() *FloppyDrive {
	if d.curDrive < 0 || d.curDrive >= len(d.drives) {
		return nil
	}
	return d.drives[d.curDrive]
}

func (d *diskControllerBase) DoubleDensity() bool { return d.doubleDens }
func (d *diskControllerBase) ClockPeriod() int    { return 1000 } // matches teacher's fixed Z_89_37::getClockPeriod

func (d *diskControllerBase) LoadHead(load bool) {
	if drv := d.CurrentDrive(); drv != nil {
		drv.HeadLoad(load)
	}
}

// RaiseIntrq/RaiseDrq/LowerIntrq/LowerDrq implement FDCHost by gating on
// the control register's enable bits and driving the shared
// InterruptController, matching Z_89_37::raiseIntrq/raiseDrq.
func (d *diskControllerBase) RaiseIntrq() {
	if d.intrqAllowed {
		d.ic.RaiseInterrupt(d.intLevel)
	}
}

func (d *diskControllerBase) RaiseDrq() {
	d.drqRaised = true
	if d.drqAllowed {
		d.ic.RaiseInterrupt(d.intLevel)
	}
}

func (d *diskControllerBase) LowerIntrq() {
	d.ic.LowerInterrupt(d.intLevel)
}

func (d *diskControllerBase) LowerDrq() {
	d.drqRaised = false
	d.ic.LowerInterrupt(d.intLevel)
}

// ConnectDrive wires a drive into one of the controller's unit slots;
// mirrors Z_89_37::connectDrive / MMS77316::connectDrive refusing to
// overwrite an already-connected unit.
func (d *diskControllerBase) ConnectDrive(unit int, drive *FloppyDrive) error {
	if unit < 0 || unit >= len(d.drives) {
		return fmt.Errorf("disk controller: invalid unit number %d", unit)
	}
	if d.drives[unit] != nil {
		return fmt.Errorf("disk controller: unit %d already connected", unit)
	}
	d.drives[unit] = drive
	return nil
}

func (d *diskControllerBase) setMotor(on bool) {
	if on == d.motorOn {
		return
	}
	d.motorOn = on
	for _, drv := range d.drives {
		if drv != nil {
			drv.Motor(on)
		}
	}
}

// Notification implements ClockUser so the concrete controller types
// (H37Controller, MMS77316Controller) can register directly with the
// WallClock; it just drives the embedded WD179x's own state machine.
func (d *diskControllerBase) Notification(ticks int) {
	d.wd.Notification(ticks)
}

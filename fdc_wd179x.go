// fdc_wd179x.go - WD1797 floppy disk controller state machine (spec.md C4)
//
// Grounded on original_source/VirtualH89/Src/wd1797.{h,cpp}: the four-port
// register set, Type I/II/III/IV command decoding, the tick-driven
// notification() state machine walking track-seek and sector-position
// phases, and the miss-counter LostData heuristic. Interrupt/DRQ signaling
// and the current-drive/clock-period lookups are abstract in the teacher
// source (pure virtual methods overridden by the concrete H37/MMS77316
// controllers); here that boundary is an explicit Go interface, FDCHost,
// implemented by disk_controller_h37.go and disk_controller_mms77316.go.
package main

const (
	fdcNumPorts = 4

	fdcStatusOffset  = 0
	fdcCommandOffset = 0
	fdcTrackOffset   = 1
	fdcSectorOffset  = 2
	fdcDataOffset    = 3
)

// Status register bits (spec.md §4.4 / wd1797.h).
const (
	statNotReady       byte = 0x80
	statWriteProtect    byte = 0x40
	statHeadLoaded      byte = 0x20
	statSeekError       byte = 0x10
	statCRCError        byte = 0x08
	statTrackZero       byte = 0x04
	statIndexPulse      byte = 0x02
	statBusy            byte = 0x01

	statRecordNotFound byte = 0x10 // Type II/III alias of SeekError bit
	statLostData       byte = 0x04 // alias of TrackZero bit
	statDataRequest    byte = 0x02 // alias of IndexPulse bit
	statWriteFault     byte = 0x20 // alias of HeadLoaded bit
)

// Command-port opcode field masks.
const (
	cmdMask            byte = 0xf0
	cmdRestore         byte = 0x00
	cmdSeekTrack       byte = 0x10
	cmdStepRepeat      byte = 0x20
	cmdStepIn          byte = 0x40
	cmdStepOut         byte = 0x60
	cmdReadSector      byte = 0x80
	cmdWriteSector     byte = 0xa0
	cmdReadAddress     byte = 0xc0
	cmdReadTrack       byte = 0xe0
	cmdWriteTrack      byte = 0xf0
	cmdForceInterrupt  byte = 0xd0

	cmdopStepMask          byte = 0x03
	cmdopVerifyTrack       byte = 0x04
	cmdopHeadLoad          byte = 0x08
	cmdopTrackUpdate       byte = 0x10
	cmdopMultipleRecord    byte = 0x10
	cmdopDataAddressMark   byte = 0x01
	cmdopUpdateSSO         byte = 0x02
	cmdopUpdateSSOShift    byte = 1
	cmdopDelay15ms         byte = 0x04
	cmdopSectorLength      byte = 0x08
	cmdopImmediateIntr     byte = 0x08
	cmdopIndexPulse        byte = 0x04
	cmdopReadyToNotReady   byte = 0x02
	cmdopNotReadyToReady   byte = 0x01
)

var fdcStepSpeeds = [4]int{3, 6, 10, 15} // 8" (2MHz) step rates in ms; 5.25" doubles these.

var fdcSectorLengths = [2][4]int{
	{256, 512, 1024, 128},
	{128, 256, 512, 1024},
}

const (
	fdcInitialSectorPos = -1000
	fdcErrorSectorPos   = -2000
	fdcHeadSettleTicks  = 10 // placeholder head-settle tick count, see SetHeadSettleTicks

	// fdcRecordNotFoundRevolutions is spec.md §4.3's Type II sector-search
	// timeout: "Non-existent sector (drive returns NO_DATA for an entire
	// index revolution) sets RecordNotFound and completes." indexCount is
	// reset to 0 on every new command (see Out's fdcCommandOffset case) and
	// incremented on each index-pulse edge in Notification, so a value of 1
	// means "one full revolution has passed with no match."
	fdcRecordNotFoundRevolutions = 1
)

type fdcDirection int

const (
	fdcDirOut fdcDirection = -1
	fdcDirIn  fdcDirection = 1
)

type fdcCommand int

const (
	fdcNone fdcCommand = iota
	fdcRestoreCmd
	fdcSeekCmd
	fdcStepCmd
	fdcStepDoneCmd
	fdcReadSectorCmd
	fdcWriteSectorCmd
	fdcReadAddressCmd
	fdcReadTrackCmd
	fdcWriteTrackCmd
	fdcForceInterruptCmd
)

// FDCHost is the set of controller-specific hooks the teacher's WD1797
// leaves abstract: which drive is currently selected, the step-rate
// doubling threshold, density, head-load pass-through, and interrupt/DRQ
// signaling (daisy-chained through the owning controller's
// InterruptController in the concrete H37/MMS77316 wiring).
type FDCHost interface {
	CurrentDrive() *FloppyDrive
	ClockPeriod() int // ns per CPU cycle; >500 means a slow (5.25") bus
	DoubleDensity() bool
	LoadHead(load bool)
	RaiseIntrq()
	LowerIntrq()
	RaiseDrq()
	LowerDrq()
}

// WD179x is the floppy disk controller chip itself.
type WD179x struct {
	base byte
	host FDCHost

	trackReg, sectorReg, dataReg, cmdReg, statusReg byte

	dataReady  bool
	intrqUp    bool
	drqUp      bool
	headLoaded bool

	sectorLengthSel int
	lastIndex       bool
	indexCount      int
	stepUpdate      bool
	stepSettle      int
	missCount       int

	seekSpeed   int
	verifyTrack bool

	multiple  bool
	delay     bool
	side      byte
	deleteDAM bool

	stepDirection fdcDirection
	curCommand    fdcCommand
	curPos        int
	sectorPos     int

	headSettleTicks int
}

func NewWD179x(base byte, host FDCHost) *WD179x {
	return &WD179x{
		base:            base,
		host:            host,
		stepDirection:   fdcDirOut,
		curCommand:      fdcNone,
		sectorPos:       fdcInitialSectorPos,
		headSettleTicks: fdcHeadSettleTicks,
	}
}

// SetHeadSettleTicks lets a controller adjust the fixed head-settle delay
// used after every seek/step/type-II/type-III command dispatch, in place of
// the teacher's commented-out millisecToTicks(seekSpeed_m) call.
func (w *WD179x) SetHeadSettleTicks(ticks int) { w.headSettleTicks = ticks }

func (w *WD179x) Reset() {
	w.trackReg, w.sectorReg, w.dataReg, w.cmdReg, w.statusReg = 0, 0, 0, 0, 0
	w.dataReady = false
	w.intrqUp = false
	w.drqUp = false
	w.headLoaded = false
	w.sectorLengthSel = 0
	w.lastIndex = false
	w.indexCount = 0
	w.stepUpdate = false
	w.stepSettle = 0
	w.missCount = 0
	w.seekSpeed = 0
	w.verifyTrack = false
	w.multiple = false
	w.delay = false
	w.side = 0
	w.deleteDAM = false
	w.curCommand = fdcNone
	w.stepDirection = fdcDirOut
	// curPos left alone: the diskette is still spinning.
	w.sectorPos = fdcInitialSectorPos
}

func (w *WD179x) BaseAddress() byte { return w.base }
func (w *WD179x) NumPorts() byte    { return fdcNumPorts }

func (w *WD179x) In(addr byte) byte {
	offset := addr - w.base
	switch offset {
	case fdcStatusOffset:
		val := w.statusReg
		w.host.LowerIntrq()
		w.intrqUp = false
		return val
	case fdcTrackOffset:
		return w.trackReg
	case fdcSectorOffset:
		return w.sectorReg
	case fdcDataOffset:
		val := w.dataReg
		w.dataReady = false
		w.statusReg &^= statDataRequest
		w.host.LowerDrq()
		w.drqUp = false
		return val
	default:
		return 0
	}
}

func (w *WD179x) Out(addr, val byte) {
	offset := addr - w.base
	switch offset {
	case fdcCommandOffset:
		w.indexCount = 0
		w.cmdReg = val
		w.processCmd(val)
	case fdcTrackOffset:
		w.trackReg = val
	case fdcSectorOffset:
		w.sectorReg = val
	case fdcDataOffset:
		w.dataReg = val
		w.dataReady = true
		w.host.LowerDrq()
		w.drqUp = false
	}
}

func (w *WD179x) raiseIntrq() {
	w.intrqUp = true
	w.host.RaiseIntrq()
}
func (w *WD179x) raiseDrq() {
	w.drqUp = true
	w.host.RaiseDrq()
}

func (w *WD179x) processCmd(cmd byte) {
	if cmd&cmdMask == cmdForceInterrupt {
		w.processCmdTypeIV(cmd)
		return
	}

	// Documentation does not define behavior when a new command arrives
	// while busy (other than force-interrupt); start the new command.
	w.statusReg = statBusy

	switch {
	case cmd&0x80 == 0x00:
		w.processCmdTypeI(cmd)
	case cmd&0x40 == 0x00:
		w.processCmdTypeII(cmd)
	default:
		w.processCmdTypeIII(cmd)
	}
}

func (w *WD179x) processCmdTypeI(cmd byte) {
	w.verifyTrack = cmd&cmdopVerifyTrack != 0
	w.seekSpeed = fdcStepSpeeds[cmd&cmdopStepMask]
	w.host.LowerDrq()
	w.drqUp = false
	w.dataReady = false

	if w.host.ClockPeriod() > 500 {
		w.seekSpeed *= 2
	}

	w.host.LoadHead(cmd&cmdopHeadLoad != 0)
	w.stepUpdate = false

	w.statusReg &^= statCRCError | statSeekError
	w.host.LowerDrq()
	w.drqUp = false
	w.host.LowerIntrq()
	w.intrqUp = false

	switch {
	case cmd&0xf0 == 0x00:
		w.curCommand = fdcRestoreCmd
	case cmd&0xc0 == 0x00:
		w.curCommand = fdcSeekCmd
		w.stepUpdate = cmd&cmdopTrackUpdate != 0
	default:
		w.curCommand = fdcStepCmd
		w.stepUpdate = cmd&cmdopTrackUpdate != 0
		if cmd&0x40 == 0x40 {
			if cmd&0x20 == 0x20 {
				w.stepDirection = fdcDirOut
			} else {
				w.stepDirection = fdcDirIn
			}
		}
	}

	w.stepSettle = 50
}

func (w *WD179x) processCmdTypeII(cmd byte) {
	w.multiple = cmd&cmdopMultipleRecord != 0
	w.delay = cmd&cmdopDelay15ms != 0
	if cmd&cmdopSectorLength != 0 {
		w.sectorLengthSel = 1
	} else {
		w.sectorLengthSel = 0
	}
	w.side = (cmd & cmdopUpdateSSO) >> cmdopUpdateSSOShift
	w.host.LoadHead(true)

	w.host.LowerDrq()
	w.drqUp = false
	w.dataReady = false
	w.sectorPos = fdcInitialSectorPos

	if cmd&0x20 == 0x20 {
		w.deleteDAM = cmd&cmdopDataAddressMark != 0
		w.curCommand = fdcWriteSectorCmd
	} else {
		w.curCommand = fdcReadSectorCmd
	}

	w.stepSettle = w.headSettleTicks
}

func (w *WD179x) processCmdTypeIII(cmd byte) {
	w.delay = cmd&cmdopDelay15ms != 0
	w.side = (cmd & cmdopUpdateSSO) >> cmdopUpdateSSOShift
	w.host.LoadHead(true)
	w.host.LowerDrq()
	w.drqUp = false
	w.dataReady = false
	w.sectorPos = fdcInitialSectorPos

	switch {
	case cmd&0xf0 == 0xc0:
		w.curCommand = fdcReadAddressCmd
	case cmd&0xf0 == 0xf0:
		w.curCommand = fdcWriteTrackCmd
		w.raiseDrq()
	case cmd&0xf0 == 0xe0:
		w.curCommand = fdcReadTrackCmd
	default:
		w.statusReg &^= statBusy
		return
	}

	w.stepSettle = w.headSettleTicks
}

func (w *WD179x) processCmdTypeIV(cmd byte) {
	w.host.LoadHead(false)
	drive := w.host.CurrentDrive()

	w.curCommand = fdcForceInterruptCmd

	if w.statusReg&statBusy != 0 {
		w.abortCmd()
		w.statusReg &^= statBusy
	} else if drive != nil {
		w.statusReg &^= statSeekError
		w.statusReg &^= statCRCError
	} else {
		w.statusReg |= statNotReady
	}

	if cmd&0x0f != 0 {
		if cmd&cmdopImmediateIntr == cmdopImmediateIntr {
			w.statusReg &^= statBusy
			w.raiseIntrq()
		}
		// Not-ready-to-ready, ready-to-not-ready, and index-pulse force
		// interrupts require a background wait-for-event mechanism this
		// core does not model; they are accepted with no further effect,
		// matching the teacher's own unimplemented branches.
	} else {
		w.statusReg &^= statBusy
		w.curCommand = fdcNone
	}
}

func (w *WD179x) abortCmd() {
	w.curCommand = fdcNone
}

func (w *WD179x) transferData(data byte) {
	if w.dataReady {
		w.statusReg |= statLostData
	}
	w.dataReady = true
	w.dataReg = data
	w.statusReg |= statDataRequest
	w.raiseDrq()
}

func (w *WD179x) sectorLen(sizeField byte) int {
	return fdcSectorLengths[w.sectorLengthSel][sizeField&0x03]
}

func (w *WD179x) updateReady(drive *FloppyDrive) {
	if drive.IsWriteProtect() {
		w.statusReg |= statWriteProtect
	} else {
		w.statusReg &^= statWriteProtect
	}
	if drive.IsReady() {
		w.statusReg &^= statNotReady
	} else {
		w.statusReg |= statNotReady
	}
}

// Notification drives the whole state machine: step/seek settling,
// then position-tracking against the spinning disk, then per-command
// sector-position phase handling (spec.md §4.4).
func (w *WD179x) Notification(cycleCount int) {
	drive := w.host.CurrentDrive()

	if drive == nil {
		w.statusReg |= statNotReady
		if w.curCommand != fdcNone {
			w.abortCmd()
			w.raiseIntrq()
			w.statusReg &^= statBusy
		}
		return
	}

	w.statusReg &^= statNotReady

	drive.Notification(cycleCount)

	indexEdge := false
	if drive.IndexPulse() {
		if !w.lastIndex {
			indexEdge = true
			w.indexCount++
		}
		w.lastIndex = true
	} else {
		w.lastIndex = false
	}
	_ = indexEdge

	w.updateReady(drive)

	if w.stepSettle > 0 {
		if w.stepSettle > cycleCount {
			w.stepSettle -= cycleCount
			return
		}
		w.stepSettle = 0
		w.missCount = 0
	}

	charPos := drive.CharPos(w.host.DoubleDensity())
	if charPos == w.curPos {
		return
	}
	w.curPos = charPos

	w.stepPhase(drive)
	w.dataPhase(drive)
}

func (w *WD179x) stepPhase(drive *FloppyDrive) {
	switch w.curCommand {
	case fdcRestoreCmd:
		if !drive.TrackZero() {
			drive.Step(false)
			w.stepSettle = w.headSettleTicks
		} else {
			w.trackReg = 0
			w.statusReg |= statTrackZero
			w.statusReg &^= statBusy
			w.raiseIntrq()
			w.curCommand = fdcNone
		}

	case fdcSeekCmd:
		if w.dataReg != w.trackReg {
			dir := w.dataReg > w.trackReg
			drive.Step(dir)
			if dir {
				w.trackReg++
			} else {
				w.trackReg--
			}
			w.stepSettle = w.headSettleTicks
		} else {
			if w.verifyTrack {
				track, _, _, ok := drive.ReadAddress()
				if !ok {
					w.statusReg |= statCRCError
				} else if track != int(w.trackReg) {
					w.statusReg |= statSeekError
				}
			}
			if drive.TrackZero() {
				w.statusReg |= statTrackZero
			} else {
				w.statusReg &^= statTrackZero
			}
			w.statusReg &^= statBusy
			w.raiseIntrq()
			w.curCommand = fdcNone
		}

	case fdcStepCmd:
		if w.stepDirection == fdcDirOut {
			if !drive.TrackZero() {
				drive.Step(false)
				if drive.TrackZero() {
					w.statusReg |= statTrackZero
				} else {
					w.statusReg &^= statTrackZero
				}
				w.stepSettle = w.headSettleTicks
				if w.stepUpdate {
					w.trackReg--
				}
			} else {
				w.statusReg |= statTrackZero
			}
		} else {
			drive.Step(true)
			w.statusReg &^= statTrackZero
			w.stepSettle = w.headSettleTicks
			if w.stepUpdate {
				w.trackReg++
			}
		}
		w.curCommand = fdcStepDoneCmd

	case fdcStepDoneCmd:
		if drive.TrackZero() {
			w.statusReg |= statTrackZero
		} else {
			w.statusReg &^= statTrackZero
		}
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	}
}

func (w *WD179x) dataPhase(drive *FloppyDrive) {
	switch w.curCommand {
	case fdcRestoreCmd, fdcSeekCmd, fdcStepCmd, fdcStepDoneCmd, fdcNone:
		w.updateReady(drive)
		if w.lastIndex {
			w.statusReg |= statIndexPulse
		} else {
			w.statusReg &^= statIndexPulse
		}

	case fdcReadSectorCmd:
		w.doReadSector(drive)
	case fdcReadAddressCmd:
		w.doReadAddress(drive)
	case fdcWriteSectorCmd:
		w.doWriteSector(drive)
	case fdcReadTrackCmd:
		w.doReadTrack(drive)
	case fdcWriteTrackCmd:
		w.doWriteTrack(drive)
	case fdcForceInterruptCmd:
		// waiting for an event this core does not model yet; see processCmdTypeIV.
	}
}

// waitForHost applies the shared "miss a few polls before declaring
// LostData" heuristic used by every streaming (read) command.
func (w *WD179x) waitForHost() (shouldReturn bool) {
	if !w.dataReady {
		return false
	}
	if w.statusReg&statLostData == 0 && w.missCount+1 < 4 {
		w.missCount++
		return true
	}
	w.statusReg |= statLostData
	return false
}

func (w *WD179x) doReadSector(drive *FloppyDrive) {
	if w.waitForHost() {
		return
	}
	w.missCount = 0
	drive.SelectSide(int(w.side))
	data := drive.ReadData(w.host.DoubleDensity(), w.trackReg, w.side, w.sectorReg, w.sectorPos)

	switch {
	case data == NoData:
		if w.indexCount >= fdcRecordNotFoundRevolutions {
			w.sectorPos = fdcErrorSectorPos
			w.statusReg |= statRecordNotFound
			w.statusReg &^= statBusy
			w.raiseIntrq()
			w.curCommand = fdcNone
		}
		// else wait for the sector to come back around.
	case data == DataAM:
		w.sectorPos = 0
	case data == CRC:
		if !w.multiple {
			w.sectorPos = fdcErrorSectorPos
			w.statusReg &^= statBusy
			w.raiseIntrq()
			w.curCommand = fdcNone
		} else {
			w.sectorReg++
			w.sectorPos = fdcInitialSectorPos
		}
	case !data.IsByte():
		w.sectorPos = fdcErrorSectorPos
		w.statusReg |= statCRCError
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	default:
		w.transferData(byte(data))
		w.sectorPos++
	}
}

func (w *WD179x) doReadAddress(drive *FloppyDrive) {
	if w.waitForHost() {
		return
	}
	w.missCount = 0
	drive.SelectSide(int(w.side))
	data := drive.ReadData(w.host.DoubleDensity(), w.trackReg, w.side, 0xfd, w.sectorPos)

	switch {
	case data == NoData:
	case data == IDAM:
		w.sectorPos = 0
	case data == CRC:
		w.sectorPos = fdcErrorSectorPos
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	case !data.IsByte():
		w.sectorPos = fdcErrorSectorPos
		w.statusReg |= statCRCError
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	default:
		if w.sectorPos == 0 {
			w.sectorReg = byte(data)
		}
		w.transferData(byte(data))
		w.sectorPos++
	}
}

func (w *WD179x) doWriteSector(drive *FloppyDrive) {
	drive.SelectSide(int(w.side))
	result := drive.WriteData(w.host.DoubleDensity(), w.trackReg, w.side, w.sectorReg, w.sectorPos, w.dataReg, w.dataReady)

	switch {
	case result == NoData:
		if w.indexCount >= fdcRecordNotFoundRevolutions {
			w.sectorPos = fdcErrorSectorPos
			w.statusReg |= statRecordNotFound
			w.statusReg &^= statBusy
			w.raiseIntrq()
			w.curCommand = fdcNone
		} else if w.sectorPos >= 0 && !w.drqUp {
			w.raiseDrq()
		}
	case result == DataAM:
		w.sectorPos = 0
	case result == CRC:
		w.sectorPos = fdcErrorSectorPos
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	case !result.IsByte():
		w.sectorPos = fdcErrorSectorPos
		w.statusReg |= statWriteFault
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	default:
		w.dataReady = false
		w.sectorPos++
		w.raiseDrq()
	}
}

func (w *WD179x) doReadTrack(drive *FloppyDrive) {
	if w.waitForHost() {
		return
	}
	w.missCount = 0
	drive.SelectSide(int(w.side))
	data := drive.ReadData(w.host.DoubleDensity(), w.trackReg, w.side, 0xff, w.sectorPos)

	switch {
	case data == NoData:
	case data == IndexAM:
		w.sectorPos = 0
	case data == CRC:
		w.sectorPos = fdcErrorSectorPos
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	case !data.IsByte():
		w.sectorPos = fdcErrorSectorPos
		w.statusReg |= statCRCError
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	default:
		w.transferData(byte(data))
		w.sectorPos++
	}
}

func (w *WD179x) doWriteTrack(drive *FloppyDrive) {
	drive.SelectSide(int(w.side))
	result := drive.WriteData(w.host.DoubleDensity(), w.trackReg, w.side, 0xff, w.sectorPos, w.dataReg, w.dataReady)

	switch {
	case result == NoData:
		if w.sectorPos >= 0 && !w.drqUp {
			w.raiseDrq()
		}
	case result == IndexAM:
		w.sectorPos = 0
	case result == CRC:
		w.sectorPos = fdcErrorSectorPos
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	case !result.IsByte():
		w.sectorPos = fdcErrorSectorPos
		w.statusReg |= statWriteFault
		w.statusReg &^= statBusy
		w.raiseIntrq()
		w.curCommand = fdcNone
	default:
		w.dataReady = false
		w.sectorPos++
		w.raiseDrq()
	}
}

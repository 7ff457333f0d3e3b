// floppy_drive.go - virtual floppy disk drive (spec.md C3)
//
// Grounded on original_source/VirtualH89/Src/GenericFloppyDrive.{h,cpp}:
// tracks/heads/media-size geometry, rpm-derived index timing, the
// motor-vs-head-load split between 5.25" and 8" media, and the
// getCharPos/readAddress/verifyTrackSector helpers the WD179x uses.

package main

// driveGeometry captures the numbers GenericFloppyDrive derives from
// mediaSize_m (rpm and raw single-density bytes/track).
type driveGeometry struct {
	rpm                int
	rawSDBytesPerTrack int
}

func geometryFor(mediaSize MediaSize) driveGeometry {
	if mediaSize == Media8Inch {
		return driveGeometry{rpm: 360, rawSDBytesPerTrack: 6400}
	}
	return driveGeometry{rpm: 300, rawSDBytesPerTrack: 3200}
}

// FloppyDrive models one drive bay: a rotating spindle with a disk loaded
// into it, independent of the format of that disk (spec.md §4.3).
type FloppyDrive struct {
	numHeads  int
	numTracks int
	mediaSize MediaSize

	ticksPerSec  int
	ticksPerRev  int
	cycleCount   uint64
	indexPulse   bool

	disk    FloppyDisk
	headSel int
	track   int

	motorOn      bool
	headLoaded   bool
	writeProtect bool
}

// NewFloppyDrive builds a drive for the given geometry. clock supplies
// ticksPerSecond so index-pulse timing tracks the configured clock rate
// (spec.md §4.3: "ticks per second comes from the wall clock").
func NewFloppyDrive(heads, tracks int, mediaSize MediaSize, clock *WallClock) *FloppyDrive {
	geo := geometryFor(mediaSize)
	d := &FloppyDrive{
		numHeads:    heads,
		numTracks:   tracks,
		mediaSize:   mediaSize,
		ticksPerSec: clock.TicksPerSecond(),
	}
	d.ticksPerRev = (d.ticksPerSec * 60) / geo.rpm
	// 8" drives spin with the head permanently loaded and the motor always
	// running; 5.25" drives start stopped/unloaded until the controller
	// issues motor-on / head-load (original_source constructor).
	d.motorOn = mediaSize == Media8Inch
	d.headLoaded = mediaSize == Media8Inch
	return d
}

func (d *FloppyDrive) rawSDBytesPerTrack() int {
	return geometryFor(d.mediaSize).rawSDBytesPerTrack
}

// InsertDisk loads media into the drive; nil ejects.
func (d *FloppyDrive) InsertDisk(disk FloppyDisk) {
	d.disk = disk
	if disk != nil {
		d.writeProtect = disk.WriteProtected()
	} else {
		d.writeProtect = false
	}
}

func (d *FloppyDrive) TrackZero() bool { return d.track == 0 }

// Step moves the head one track toward the spindle center (true) or the
// rim (false), clamped at the drive's travel limits.
func (d *FloppyDrive) Step(directionIn bool) {
	if directionIn {
		if d.track < d.numTracks-1 {
			d.track++
		}
	} else if d.track > 0 {
		d.track--
	}
}

func (d *FloppyDrive) SelectSide(side int) {
	d.headSel = side % d.numHeads
}

// ReadData delegates to the loaded disk, but always with the drive's own
// idea of current track/side - the FDC's track and side arguments are
// ignored and the drive's own position is used (original_source comment:
// "override FDC track/side with our own - it's the real one").
func (d *FloppyDrive) ReadData(doubleDensity bool, track, side, sector byte, inSector int) DataValue {
	if d.disk == nil {
		return ErrVal
	}
	if doubleDensity != d.disk.DoubleDensity() {
		return ErrVal
	}
	realTrack := d.disk.RealTrackNumber(d.track)
	return d.disk.ReadData(byte(realTrack), byte(d.headSel), sector, inSector)
}

func (d *FloppyDrive) WriteData(doubleDensity bool, track, side, sector byte, inSector int, data byte, dataReady bool) DataValue {
	if d.disk == nil {
		return ErrVal
	}
	if sector == 0xff {
		if !doubleDensity {
			sector &^= 1
		}
	} else if doubleDensity != d.disk.DoubleDensity() {
		return ErrVal
	}
	realTrack := d.disk.RealTrackNumber(d.track)
	return d.disk.WriteData(byte(realTrack), byte(d.headSel), sector, inSector, data, dataReady)
}

// Notification is the WallClock/ClockUser callback: it advances the
// spindle-rotation counter and derives the index pulse window. A drive with
// no disk loaded or with its motor off does not rotate.
func (d *FloppyDrive) Notification(ticks int) {
	if d.disk == nil || !d.motorOn {
		return
	}
	d.cycleCount += uint64(ticks)
	d.cycleCount %= uint64(d.ticksPerRev)
	// index pulse held for the first 2000 ticks of each revolution (about
	// 1ms at 2MHz), the same fixed window the teacher source uses
	// regardless of clock rate.
	d.indexPulse = d.cycleCount < 2000
}

// CharPos returns which byte position under the head the spindle has
// rotated to, used by the FDC to detect address marks drifting past
// (spec.md §4.4).
func (d *FloppyDrive) CharPos(doubleDensity bool) int {
	bytesPerTrack := d.rawSDBytesPerTrack()
	if doubleDensity {
		bytesPerTrack *= 2
	}
	ticksPerByte := d.ticksPerRev / bytesPerTrack
	if ticksPerByte == 0 {
		return 0
	}
	return int(d.cycleCount) / ticksPerByte
}

// ReadAddress reports what an address-mark read would see: the media's
// real track number (after hypo/hyper correction), current side, and (not
// yet modeled per-sector) sector 0.
func (d *FloppyDrive) ReadAddress() (track, sector, side int, ok bool) {
	if d.disk == nil || !d.motorOn {
		return 0, 0, 0, false
	}
	return d.disk.RealTrackNumber(d.track), 0, d.headSel, true
}

// VerifyTrackSector confirms the drive's real track matches trackNum and
// that the media's directory actually has sectorNum on it (spec.md §4.4
// "quick directory lookup rather than a physical scan").
func (d *FloppyDrive) VerifyTrackSector(trackNum, sectorNum int) bool {
	if d.disk == nil || !d.motorOn {
		return false
	}
	real := d.disk.RealTrackNumber(d.track)
	if real != trackNum {
		return false
	}
	return d.disk.FindSector(d.headSel, real, sectorNum)
}

// HeadLoad is honored only on 8" media (spec.md: "ignored on 5.25\" drives").
func (d *FloppyDrive) HeadLoad(load bool) {
	if d.mediaSize == Media8Inch {
		d.headLoaded = load
	}
}

// Motor is honored only on 5.25" media (8" drives spin continuously).
func (d *FloppyDrive) Motor(on bool) {
	if d.mediaSize != Media8Inch {
		d.motorOn = on
	}
}

func (d *FloppyDrive) IndexPulse() bool { return d.indexPulse }
func (d *FloppyDrive) NumTracks() int   { return d.numTracks }

func (d *FloppyDrive) IsReady() bool {
	return d.disk != nil && d.disk.IsReady()
}

func (d *FloppyDrive) IsWriteProtect() bool {
	return d.disk != nil && d.disk.WriteProtected()
}

func (d *FloppyDrive) MediaName() string {
	if d.disk == nil {
		return ""
	}
	return d.disk.MediaName()
}

// DriveStatus bundles the four status bits the WD179x reads back each poll.
type DriveStatus struct {
	WriteProtected bool
	HeadLoaded     bool
	TrackZero      bool
	IndexPulse     bool
}

func (d *FloppyDrive) Status() DriveStatus {
	return DriveStatus{
		WriteProtected: d.writeProtect,
		HeadLoaded:     d.headLoaded,
		TrackZero:      d.track == 0,
		IndexPulse:     d.indexPulse,
	}
}

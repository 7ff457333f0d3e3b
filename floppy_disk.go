// floppy_disk.go - floppy media abstraction (spec.md C2)
//
// Grounded on original_source/VirtualH89/Src/GenericFloppyDisk.{h,cpp} and
// its RawFloppyImage/IMDFloppyDisk/TD0FloppyDisk subclasses.

package main

// FloppyDisk is the media-level contract every image format implements.
// inSector == -1 requests an address-mark probe; 0..secSize-1 streams the
// sector payload; beyond that the disk returns CRC (spec.md §3).
type FloppyDisk interface {
	// ReadData reads one logical position from (track, side, sector).
	// sector == 0xfd means "read address" and sector == 0xff means
	// "read/write track" - real-track sentinels shared with the drive
	// (original_source wd1797.cpp uses the same 0xfd/0xff convention).
	ReadData(track, side, sector byte, inSector int) DataValue
	WriteData(track, side, sector byte, inSector int, data byte, dataReady bool) DataValue

	IsReady() bool
	WriteProtected() bool
	DoubleDensity() bool

	NumTracks() int
	NumSides() int
	SectorsPerTrack() int
	SectorSize() int

	// RealTrackNumber applies the hypo/hyper-track correction: media may be
	// recorded at half or double the drive's native step count.
	RealTrackNumber(driveTrack int) int

	// FindSector is the quick directory lookup used by
	// FloppyDrive.VerifyTrackSector (spec.md §4.4).
	FindSector(side, track, sector int) bool

	MediaName() string
	Eject()
}

// diskBase holds the fields every format shares (spec.md §3: write-protect,
// double-density, tracks, sectors/track, sides, sector length, media size,
// hypo/hyper-track).
type diskBase struct {
	name            string
	writeProtect    bool
	doubleDensity   bool
	numTracks       int
	sectorsPerTrack int
	numSides        int
	sectorSize      int
	mediaSize       MediaSize
	hypoTrack       bool // ST(single-step) media in a DT(double-step) drive
	hyperTrack      bool // DT media in an ST drive
}

func (d *diskBase) IsReady() bool           { return true }
func (d *diskBase) WriteProtected() bool    { return d.writeProtect }
func (d *diskBase) DoubleDensity() bool     { return d.doubleDensity }
func (d *diskBase) NumTracks() int          { return d.numTracks }
func (d *diskBase) NumSides() int           { return d.numSides }
func (d *diskBase) SectorsPerTrack() int    { return d.sectorsPerTrack }
func (d *diskBase) SectorSize() int         { return d.sectorSize }
func (d *diskBase) MediaName() string       { return d.name }

// RealTrackNumber implements the hypo/hyper-track correction shared by all
// formats: hypoTrack media is single-stepped media in a double-step drive
// (each media track spans two drive steps, so halve); hyperTrack is the
// inverse (double).
func (d *diskBase) RealTrackNumber(driveTrack int) int {
	switch {
	case d.hypoTrack:
		return driveTrack / 2
	case d.hyperTrack:
		return driveTrack * 2
	default:
		return driveTrack
	}
}

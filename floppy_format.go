// floppy_format.go - shared constants for the floppy media pseudo-value channel

package main

// DataValue is the signed channel used by GenericFloppyDrive.readData/writeData
// and GenericFloppyDisk.readData/writeData: non-negative values 0..255 are real
// bytes off (or onto) the media, negative values are pseudo-values - the
// vocabulary the drive and disk use to talk to the FDC about address marks,
// end-of-sector, and error conditions.
type DataValue int

// Pseudo-values. Real data bytes are always 0..255; these sentinel values
// are chosen by negating the on-disk marker byte the encoder would have used
// (see original VirtualH89 GenericFloppyFormat.h), so they can never collide
// with a real byte value.
const (
	IndexAM DataValue = -0xfc
	IDAM    DataValue = -0xfe
	DataAM  DataValue = -0xfb
	CRC     DataValue = -1000
	NoData  DataValue = -1001
	ErrVal  DataValue = -1002
)

// IsByte reports whether v carries a real data byte rather than a pseudo-value.
func (v DataValue) IsByte() bool {
	return v >= 0 && v <= 0xff
}

// sectorPos sentinels used by the WD179x state machine when walking a sector.
const (
	initialSectorPos = -1000 // not yet found the address/data mark
	errorSectorPos   = -2000 // command has ended in error, ignore further notifications
)

// MediaSize identifies the physical diameter of floppy media/drives.
type MediaSize int

const (
	Media8Inch    MediaSize = 8
	Media525Inch  MediaSize = 5
)

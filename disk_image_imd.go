// disk_image_imd.go - Dave Dunfield ImageDisk (.imd) reader (spec.md §6)
//
// Grounded on original_source/VirtualH89/Src/IMDFloppyDisk.{h,cpp}: the
// text-comment preamble terminated by 0x1a, then a sequence of track
// headers (mode, cylinder, head-with-flags, sector count, size code,
// sector-order table, optional cylinder/head maps) each followed by one
// type+payload block per sector.

package main

import (
	"fmt"
	"os"
)

type imdSectorType byte

const (
	imdSectorUnavailable imdSectorType = 0x00
)

type imdSector struct {
	data       []byte
	compressed bool
	deleted    bool
	dataError  bool
	present    bool
}

type imdTrack struct {
	cyl, head     byte
	doubleDensity bool
	sectorSize    int
	order         []byte
	sectors       map[byte]*imdSector // keyed by logical sector number
}

// IMDFloppyDisk is an in-memory decode of a .imd file; IMD images are small
// enough that, unlike RawFloppyImage, the teacher's approach of loading the
// whole thing and indexing by (head, cylinder) in memory is followed as-is.
type IMDFloppyDisk struct {
	diskBase
	tracks map[[2]byte]*imdTrack // [head][cyl]
}

func imdModeIsDoubleDensity(mode byte) bool {
	return mode >= 3
}

// OpenIMDFloppyDisk reads and fully decodes an .imd image.
func OpenIMDFloppyDisk(path string) (*IMDFloppyDisk, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	pos := 0
	for {
		if pos >= len(buf) {
			return nil, fmt.Errorf("imd image %s: no 0x1a terminator found in comment header", path)
		}
		if buf[pos] == 0x1a {
			pos++
			break
		}
		pos++
	}

	img := &IMDFloppyDisk{tracks: map[[2]byte]*imdTrack{}}
	img.name = path
	maxCyl := 0

	for pos < len(buf) {
		if pos+4 > len(buf) {
			break
		}
		mode := buf[pos]
		pos++
		cyl := buf[pos]
		pos++
		headByte := buf[pos]
		pos++
		numSec := int(buf[pos])
		pos++
		if pos >= len(buf) {
			return nil, fmt.Errorf("imd image %s: truncated track header", path)
		}
		sizeKey := buf[pos]
		pos++

		sectorCylMap := headByte&0x80 != 0
		sectorHeadMap := headByte&0x40 != 0
		head := headByte & 1

		if sizeKey >= 7 {
			return nil, fmt.Errorf("imd image %s: unknown sector size code %d", path, sizeKey)
		}
		sectorSize := 1 << (int(sizeKey) + 7)

		order := make([]byte, numSec)
		for i := range order {
			order[i] = buf[pos]
			pos++
		}
		if sectorCylMap {
			pos += numSec
		}
		if sectorHeadMap {
			pos += numSec
		}

		trk := &imdTrack{
			cyl: cyl, head: head,
			doubleDensity: imdModeIsDoubleDensity(mode),
			sectorSize:    sectorSize,
			order:         order,
			sectors:       map[byte]*imdSector{},
		}

		for i := 0; i < numSec; i++ {
			if pos >= len(buf) {
				return nil, fmt.Errorf("imd image %s: truncated sector data", path)
			}
			sectorType := buf[pos]
			pos++
			sec := &imdSector{present: true}

			if sectorType == byte(imdSectorUnavailable) {
				sec.present = false
			} else if sectorType > 0x08 {
				return nil, fmt.Errorf("imd image %s: sector type out of range: %d", path, sectorType)
			} else {
				t := sectorType - 1
				sec.compressed = t&0x01 != 0
				sec.deleted = t&0x02 != 0
				sec.dataError = t&0x04 != 0

				if sec.compressed {
					if pos >= len(buf) {
						return nil, fmt.Errorf("imd image %s: truncated compressed sector fill byte", path)
					}
					fill := buf[pos]
					pos++
					sec.data = make([]byte, sectorSize)
					for j := range sec.data {
						sec.data[j] = fill
					}
				} else {
					if pos+sectorSize > len(buf) {
						return nil, fmt.Errorf("imd image %s: truncated sector payload", path)
					}
					sec.data = append([]byte(nil), buf[pos:pos+sectorSize]...)
					pos += sectorSize
				}
			}
			trk.sectors[order[i]] = sec
		}

		img.tracks[[2]byte{head, cyl}] = trk
		if int(cyl) >= maxCyl {
			maxCyl = int(cyl) + 1
		}
		if numSec > img.sectorsPerTrack {
			img.sectorsPerTrack = numSec
			img.sectorSize = sectorSize
		}
		img.doubleDensity = trk.doubleDensity
		if head == 1 {
			img.numSides = 2
		}
	}
	img.numTracks = maxCyl
	if img.numSides == 0 {
		img.numSides = 1
	}
	return img, nil
}

func (img *IMDFloppyDisk) trackFor(track, side byte) *imdTrack {
	return img.tracks[[2]byte{side, track}]
}

func (img *IMDFloppyDisk) ReadData(track, side, sector byte, inSector int) DataValue {
	trk := img.trackFor(track, side)
	if trk == nil {
		return NoData
	}
	if inSector < 0 {
		return IDAM
	}
	sec, ok := trk.sectors[sector]
	if !ok || !sec.present {
		return NoData
	}
	if inSector >= len(sec.data) {
		return CRC
	}
	return DataValue(sec.data[inSector])
}

func (img *IMDFloppyDisk) WriteData(track, side, sector byte, inSector int, data byte, dataReady bool) DataValue {
	if img.writeProtect {
		return ErrVal
	}
	trk := img.trackFor(track, side)
	if trk == nil {
		return ErrVal
	}
	sec, ok := trk.sectors[sector]
	if !ok || !sec.present || !dataReady || inSector < 0 || inSector >= len(sec.data) {
		return DataValue(0)
	}
	sec.data[inSector] = data
	sec.compressed = false
	return DataValue(data)
}

func (img *IMDFloppyDisk) FindSector(side, track, sector int) bool {
	trk := img.trackFor(byte(track), byte(side))
	if trk == nil {
		return false
	}
	sec, ok := trk.sectors[byte(sector)]
	return ok && sec.present
}

func (img *IMDFloppyDisk) Eject() {}

// disk_image_td0.go - Teledisk (.td0) reader (spec.md §6)
//
// Grounded on original_source/VirtualH89/Src/TD0FloppyDisk.cpp's readTD0:
// 12-byte header (magic, sequence, check-sequence, version, data rate +
// density flag, drive type, comment flag, sides), optional comment block,
// then a stream of track headers (sector count 255 terminates) each
// followed by per-sector headers and one of three payload encodings (raw,
// 2-byte-repeat, run-length).

package main

import (
	"fmt"
	"os"
)

type td0Sector struct {
	cyl, head, num int
	size           int
	data           []byte
	readError      bool
	deletedAM      bool
}

type td0Track struct {
	side          int
	doubleDensity bool
	sectors       map[int]*td0Sector
}

type TD0FloppyDisk struct {
	diskBase
	tracks map[[2]int]*td0Track // [side][cylinder]
}

// OpenTD0FloppyDisk reads and fully decodes a .td0/.TD0 image, including the
// "td" advanced-compression variant via td0_lzss.go.
func OpenTD0FloppyDisk(path string) (*TD0FloppyDisk, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < 12 {
		return nil, fmt.Errorf("td0 image %s: file too short", path)
	}

	var advanced bool
	switch {
	case raw[0] == 'T' && raw[1] == 'D':
		advanced = false
	case raw[0] == 't' && raw[1] == 'd':
		advanced = true
	default:
		return nil, fmt.Errorf("td0 image %s: bad magic 0x%02x 0x%02x", path, raw[0], raw[1])
	}

	dec := newTD0Decompressor(raw[12:], advanced)

	img := &TD0FloppyDisk{tracks: map[[2]int]*td0Track{}}
	img.name = path
	img.doubleDensity = raw[5]&0x80 == 0

	hasComment := raw[7]&0x80 != 0
	if hasComment {
		dec.GetByte()
		dec.GetByte()
		commentLen := dec.GetWord()
		dec.GetByte()
		dec.GetByte()
		dec.GetByte()
		dec.GetByte()
		dec.GetByte()
		dec.GetByte()
		for i := 0; i < commentLen; i++ {
			dec.GetByte()
		}
	}

	maxCyl := 0
	maxSides := 1
	for {
		sectors := dec.GetByte()
		cylinder := dec.GetByte()
		sideByte := dec.GetByte()
		_ = dec.GetByte() // track CRC byte, unchecked

		if sectors == 255 {
			break
		}
		if sectors < 0 || cylinder < 0 {
			return nil, fmt.Errorf("td0 image %s: truncated track stream", path)
		}

		side := sideByte & 0x01
		doubleDensity := sideByte&0x80 == 0
		if cylinder+1 > maxCyl {
			maxCyl = cylinder + 1
		}
		if side+1 > maxSides {
			maxSides = side + 1
		}

		trk := &td0Track{side: side, doubleDensity: doubleDensity, sectors: map[int]*td0Sector{}}

		for s := 0; s < sectors; s++ {
			secCyl := dec.GetByte()
			secHead := dec.GetByte()
			secNum := dec.GetByte()
			sizeCode := dec.GetByte()
			secFlags := dec.GetByte()
			_ = dec.GetByte() // per-sector CRC byte, unchecked

			var secSize int
			if sizeCode >= 0 && sizeCode < 7 {
				secSize = 128 << uint(sizeCode)
			}

			sec := &td0Sector{
				cyl: secCyl, head: secHead, num: secNum, size: secSize,
				readError: secFlags&0x02 != 0,
				deletedAM: secFlags&0x04 != 0,
			}

			if secFlags&0x30 == 0 {
				block, err := readTD0SectorBlock(dec, secSize)
				if err != nil {
					return nil, fmt.Errorf("td0 image %s: %w", path, err)
				}
				sec.data = block
			}

			trk.sectors[secNum] = sec
			if sec.size > img.sectorSize {
				img.sectorSize = sec.size
			}
			img.sectorsPerTrack++
		}
		if sectors > 0 {
			img.sectorsPerTrack = sectors
		}

		img.tracks[[2]int{side, cylinder}] = trk
	}

	img.numTracks = maxCyl
	img.numSides = maxSides
	return img, nil
}

// readTD0SectorBlock decodes one sector's data-block header (length,
// encoding byte) and payload.
func readTD0SectorBlock(dec *td0Decompressor, secSize int) ([]byte, error) {
	blockSize := dec.GetWord() - 1
	encoding := dec.GetByte()

	block := make([]byte, 0, secSize)
	switch encoding {
	case 0: // raw
		for i := 0; i < blockSize; i++ {
			block = append(block, byte(dec.GetByte()))
		}
	case 1: // repeated 2-byte pattern
		for len(block) < secSize {
			runLen := dec.GetWord()
			v0 := byte(dec.GetByte())
			v1 := byte(dec.GetByte())
			for j := 0; j < runLen; j++ {
				block = append(block, v0, v1)
			}
		}
	case 2: // run-length encoded
		for len(block) < secSize {
			code := dec.GetByte()
			if code == 0 {
				length := dec.GetByte()
				for ; length > 0; length-- {
					block = append(block, byte(dec.GetByte()))
				}
				continue
			}
			l := code * 2
			repeat := dec.GetByte()
			start := len(block)
			for k := 0; k < l; k++ {
				block = append(block, byte(dec.GetByte()))
			}
			for r := 1; r < repeat; r++ {
				block = append(block, block[start:start+l]...)
			}
		}
	default:
		return nil, fmt.Errorf("unknown sector encoding %d", encoding)
	}
	if len(block) > secSize {
		block = block[:secSize]
	}
	return block, nil
}

func (img *TD0FloppyDisk) trackFor(track, side byte) *td0Track {
	return img.tracks[[2]int{int(side), int(track)}]
}

func (img *TD0FloppyDisk) ReadData(track, side, sector byte, inSector int) DataValue {
	if inSector < 0 {
		return IDAM
	}
	trk := img.trackFor(track, side)
	if trk == nil {
		return NoData
	}
	sec, ok := trk.sectors[int(sector)]
	if !ok {
		return NoData
	}
	if inSector >= len(sec.data) {
		return CRC
	}
	return DataValue(sec.data[inSector])
}

func (img *TD0FloppyDisk) WriteData(track, side, sector byte, inSector int, data byte, dataReady bool) DataValue {
	if img.writeProtect {
		return ErrVal
	}
	trk := img.trackFor(track, side)
	if trk == nil {
		return ErrVal
	}
	sec, ok := trk.sectors[int(sector)]
	if !ok || !dataReady || inSector < 0 || inSector >= len(sec.data) {
		return DataValue(0)
	}
	sec.data[inSector] = data
	return DataValue(data)
}

func (img *TD0FloppyDisk) FindSector(side, track, sector int) bool {
	rtrack := track
	if img.hypoTrack {
		rtrack = track / 2
	} else if img.hyperTrack {
		rtrack = track * 2
	}
	trk := img.trackFor(byte(rtrack), byte(side))
	if trk == nil {
		return false
	}
	_, ok := trk.sectors[sector]
	return ok
}

func (img *TD0FloppyDisk) Eject() {}

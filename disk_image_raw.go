// disk_image_raw.go - flat sector-image disks with an ASCII geometry header
// (spec.md §6). Grounded on original_source/VirtualH89/Src/RawFloppyImage.{h,cpp}
// for the cacheTrack/track-buffer and address-mark synthesis approach; the
// header text itself follows spec.md's literal grammar, which is closer to
// what GenericSASIDrive.cpp actually emits than what RawFloppyImage.cpp reads
// - see DESIGN.md for the discrepancy note.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// rawHeaderFields mirrors the `<N>c<N>h<N>z<N>p<N>s<N>t<N>d<N>i<N>l\n`
// grammar: cylinders, heads, sector-size, sectors-per-track, sides, tracks,
// density, interlaced, latency.
type rawHeaderFields struct {
	cylinders       int
	heads           int
	sectorSize      int
	sectorsPerTrack int
	sides           int
	tracks          int
	density         int // 0 = single, 1 = double
	interlaced      int
	latency         int
}

// parseRawHeader parses one 128-byte ASCII header line of digit+letter
// pairs, e.g. "77c2h256z26p2s77t1d0i10l\n". Unrecognised letters are
// ignored so the format can grow without breaking old images.
func parseRawHeader(line string) (rawHeaderFields, error) {
	var f rawHeaderFields
	line = strings.TrimRight(line, "\x00\r\n ")
	num := strings.Builder{}
	for _, r := range line {
		if r >= '0' && r <= '9' {
			num.WriteRune(r)
			continue
		}
		if num.Len() == 0 {
			continue
		}
		v, err := strconv.Atoi(num.String())
		if err != nil {
			return f, fmt.Errorf("raw image header: bad numeric field near %q: %w", line, err)
		}
		num.Reset()
		switch r {
		case 'c':
			f.cylinders = v
		case 'h':
			f.heads = v
		case 'z':
			f.sectorSize = v
		case 'p':
			f.sectorsPerTrack = v
		case 's':
			f.sides = v
		case 't':
			f.tracks = v
		case 'd':
			f.density = v
		case 'i':
			f.interlaced = v
		case 'l':
			f.latency = v
		}
	}
	if f.sectorSize == 0 || f.sectorsPerTrack == 0 {
		return f, fmt.Errorf("raw image header: missing required geometry fields in %q", line)
	}
	return f, nil
}

const rawHeaderSize = 128

// RawFloppyImage is a soft-sectored image where every track is identically
// formatted, so address marks can be synthesized positionally rather than
// stored (original_source comment: "each track must be identically
// formatted").
type RawFloppyImage struct {
	diskBase
	f      *os.File
	header rawHeaderFields
	dataOffset int64
}

// OpenRawFloppyImage reads the geometry header (leading, per spec.md) and
// wraps the remaining flat sector data.
func OpenRawFloppyImage(path string) (*RawFloppyImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, rawHeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("raw image %s: short header: %w", path, err)
	}
	line, _ := bufio.NewReader(strings.NewReader(string(buf))).ReadString('\n')
	hdr, err := parseRawHeader(line)
	if err != nil {
		f.Close()
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	wantSize := int64(rawHeaderSize) + int64(hdr.cylinders)*int64(hdr.sides)*int64(hdr.sectorsPerTrack)*int64(hdr.sectorSize)
	if info.Size() < wantSize {
		f.Close()
		return nil, fmt.Errorf("raw image %s: file too small for header geometry (have %d, want %d)", path, info.Size(), wantSize)
	}

	img := &RawFloppyImage{
		f:          f,
		header:     hdr,
		dataOffset: rawHeaderSize,
		diskBase: diskBase{
			name:            path,
			doubleDensity:   hdr.density != 0,
			numTracks:       hdr.cylinders,
			sectorsPerTrack: hdr.sectorsPerTrack,
			numSides:        hdr.sides,
			sectorSize:      hdr.sectorSize,
		},
	}
	if hdr.tracks != 0 && hdr.tracks != hdr.cylinders {
		if hdr.tracks == hdr.cylinders*2 {
			img.hyperTrack = true
		} else if hdr.cylinders == hdr.tracks*2 {
			img.hypoTrack = true
		}
	}
	return img, nil
}

func (r *RawFloppyImage) offset(track, side int, byteInSector int) int64 {
	return r.dataOffset +
		int64(track)*int64(r.numSides)*int64(r.sectorsPerTrack)*int64(r.sectorSize) +
		int64(side)*int64(r.sectorsPerTrack)*int64(r.sectorSize) +
		int64(byteInSector)
}

// ReadData synthesizes address marks positionally: inSector == -1 means
// "give me the ID address mark for this sector", 0..sectorSize-1 streams
// sector bytes, and out-of-range falls back to CRC per spec.md §3.
func (r *RawFloppyImage) ReadData(track, side, sector byte, inSector int) DataValue {
	if int(track) >= r.numTracks || int(side) >= r.numSides || int(sector) >= r.sectorsPerTrack {
		return NoData
	}
	if inSector < 0 {
		return IDAM
	}
	if inSector >= r.sectorSize {
		return CRC
	}
	off := r.offset(int(track), int(side), int(sector)*r.sectorSize+inSector)
	buf := make([]byte, 1)
	if _, err := r.f.ReadAt(buf, off); err != nil {
		return ErrVal
	}
	return DataValue(buf[0])
}

func (r *RawFloppyImage) WriteData(track, side, sector byte, inSector int, data byte, dataReady bool) DataValue {
	if r.writeProtect {
		return ErrVal
	}
	if !dataReady || inSector < 0 || inSector >= r.sectorSize {
		return DataValue(0)
	}
	if int(track) >= r.numTracks || int(side) >= r.numSides || int(sector) >= r.sectorsPerTrack {
		return ErrVal
	}
	off := r.offset(int(track), int(side), int(sector)*r.sectorSize+inSector)
	if _, err := r.f.WriteAt([]byte{data}, off); err != nil {
		return ErrVal
	}
	return DataValue(data)
}

func (r *RawFloppyImage) FindSector(side, track, sector int) bool {
	return side < r.numSides && track < r.numTracks && sector < r.sectorsPerTrack
}

func (r *RawFloppyImage) Eject() {
	if r.f != nil {
		r.f.Close()
		r.f = nil
	}
}

// disk_image_sasi.go - flat SASI hard-disk image files (spec.md §6)
//
// Grounded on original_source/VirtualH89/Src/GenericSASIDrive.cpp: a
// 128-byte ASCII header of the form "%dc%dh%dz%dp%dl\n" (cylinders, heads,
// sector size, sectors/track, latency) that is written at the END of a
// freshly created image and read from either the end or (as a fallback)
// the start of an existing one; sector data is a flat, unblocked array
// with no address marks, since SASI talks in logical sectors only. SASI
// adapter protocol internals are out of this core's scope (spec.md
// Non-goals); only the media container is implemented here, for
// mms77320_* configuration to mount against.
package main

import (
	"fmt"
	"os"
)

type sasiHeaderFields struct {
	cylinders       int
	heads           int
	sectorSize      int
	sectorsPerTrack int
	latency         int
}

func parseSASIHeader(buf []byte) (sasiHeaderFields, bool) {
	var f sasiHeaderFields
	num := 0
	haveDigit := false
	for _, b := range buf {
		if b >= '0' && b <= '9' {
			num = num*10 + int(b-'0')
			haveDigit = true
			continue
		}
		if !haveDigit {
			if b == 0 {
				break
			}
			continue
		}
		switch b {
		case 'c':
			f.cylinders = num
		case 'h':
			f.heads = num
		case 'z':
			f.sectorSize = num
		case 'p':
			f.sectorsPerTrack = num
		case 'l':
			f.latency = num
		case '\n':
			return f, f.sectorSize != 0 && f.sectorsPerTrack != 0
		default:
			return f, false
		}
		num = 0
		haveDigit = false
	}
	return f, f.sectorSize != 0 && f.sectorsPerTrack != 0
}

const sasiHeaderSize = 128

// SASIDisk is a flat logical-block image: capacity bytes of sector data
// plus a 128-byte geometry header trailer (or, for images written by an
// older tool, a leading header).
type SASIDisk struct {
	f          *os.File
	header     sasiHeaderFields
	dataOffset int64
	writeProtect bool
}

// OpenSASIDisk mounts an existing image, or - if it is empty - formats it
// fresh with the given geometry, matching the "special case: 0 (EOF) means
// new media" branch of the teacher constructor.
func OpenSASIDisk(path string, cylinders, heads, sectorSize, sectorsPerTrack int) (*SASIDisk, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	d := &SASIDisk{f: f}

	if info.Size() == 0 {
		d.header = sasiHeaderFields{cylinders: cylinders, heads: heads, sectorSize: sectorSize, sectorsPerTrack: sectorsPerTrack, latency: 1}
		capacity := int64(cylinders) * int64(heads) * int64(sectorsPerTrack) * int64(sectorSize)
		hdr := make([]byte, sasiHeaderSize)
		line := fmt.Sprintf("%dc%dh%dz%dp%dl\n", cylinders, heads, sectorSize, sectorsPerTrack, 1)
		copy(hdr, line)
		if err := f.Truncate(capacity + sasiHeaderSize); err != nil {
			f.Close()
			return nil, err
		}
		if _, err := f.WriteAt(hdr, capacity); err != nil {
			f.Close()
			return nil, err
		}
		d.dataOffset = 0
		return d, nil
	}

	trailer := make([]byte, sasiHeaderSize)
	if _, err := f.ReadAt(trailer, info.Size()-sasiHeaderSize); err == nil {
		if hdr, ok := parseSASIHeader(trailer); ok {
			d.header = hdr
			d.dataOffset = 0
			return d, nil
		}
	}

	leading := make([]byte, sasiHeaderSize)
	if _, err := f.ReadAt(leading, 0); err == nil {
		if hdr, ok := parseSASIHeader(leading); ok {
			d.header = hdr
			d.dataOffset = int64(hdr.sectorSize)
			return d, nil
		}
	}

	f.Close()
	return nil, fmt.Errorf("sasi image %s: bad media header", path)
}

func (d *SASIDisk) blockOffset(lba int) int64 {
	return d.dataOffset + int64(lba)*int64(d.header.sectorSize)
}

func (d *SASIDisk) ReadBlock(lba int) ([]byte, error) {
	buf := make([]byte, d.header.sectorSize)
	_, err := d.f.ReadAt(buf, d.blockOffset(lba))
	return buf, err
}

func (d *SASIDisk) WriteBlock(lba int, data []byte) error {
	if d.writeProtect {
		return fmt.Errorf("sasi image: write-protected")
	}
	_, err := d.f.WriteAt(data[:d.header.sectorSize], d.blockOffset(lba))
	return err
}

func (d *SASIDisk) SectorSize() int       { return d.header.sectorSize }
func (d *SASIDisk) SectorsPerTrack() int  { return d.header.sectorsPerTrack }
func (d *SASIDisk) Cylinders() int        { return d.header.cylinders }
func (d *SASIDisk) Heads() int            { return d.header.heads }

func (d *SASIDisk) Close() error { return d.f.Close() }

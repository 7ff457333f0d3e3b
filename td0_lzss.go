// td0_lzss.go - Teledisk "advanced compression" LZSS + adaptive Huffman
// decoder (spec.md §6 REDESIGN FLAGS: "must decode it").
//
// Grounded on original_source/VirtualH89/Src/TD0FloppyDisk.cpp's
// init_decompress/update/GetChar/GetBit/GetByte/DecodeChar/DecodePosition/
// getbyte state machine. The teacher's own port of this algorithm bails out
// with `return false` the moment it sees the "td" advanced-compression
// magic rather than decoding it (TD0FloppyDisk.cpp readTD0); this port
// actually runs the state machine instead of giving up, per the spec's
// redesign note.
package main

const (
	td0RingSize  = 4096 // SB_SIZE
	td0LookAhead = 60   // LA_SIZE
	td0Threshold = 2
	td0NumChars  = 256 - td0Threshold + td0LookAhead // N_CHAR
	td0TableSize = td0NumChars*2 - 1                 // T_SIZE
	td0Root      = td0TableSize - 1
	td0MaxFreq   = 0x8000
)

var td0DCode = [256]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02,
	0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03,
	0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05,
	0x06, 0x06, 0x06, 0x06, 0x06, 0x06, 0x06, 0x06, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07,
	0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x09, 0x09, 0x09, 0x09, 0x09, 0x09, 0x09, 0x09,
	0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0A, 0x0B, 0x0B, 0x0B, 0x0B, 0x0B, 0x0B, 0x0B, 0x0B,
	0x0C, 0x0C, 0x0C, 0x0C, 0x0D, 0x0D, 0x0D, 0x0D, 0x0E, 0x0E, 0x0E, 0x0E, 0x0F, 0x0F, 0x0F, 0x0F,
	0x10, 0x10, 0x10, 0x10, 0x11, 0x11, 0x11, 0x11, 0x12, 0x12, 0x12, 0x12, 0x13, 0x13, 0x13, 0x13,
	0x14, 0x14, 0x14, 0x14, 0x15, 0x15, 0x15, 0x15, 0x16, 0x16, 0x16, 0x16, 0x17, 0x17, 0x17, 0x17,
	0x18, 0x18, 0x19, 0x19, 0x1A, 0x1A, 0x1B, 0x1B, 0x1C, 0x1C, 0x1D, 0x1D, 0x1E, 0x1E, 0x1F, 0x1F,
	0x20, 0x20, 0x21, 0x21, 0x22, 0x22, 0x23, 0x23, 0x24, 0x24, 0x25, 0x25, 0x26, 0x26, 0x27, 0x27,
	0x28, 0x28, 0x29, 0x29, 0x2A, 0x2A, 0x2B, 0x2B, 0x2C, 0x2C, 0x2D, 0x2D, 0x2E, 0x2E, 0x2F, 0x2F,
	0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F,
}

var td0DLen = [16]byte{2, 2, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 6, 6, 6, 7}

// td0Decompressor holds one LZSS+Huffman decoding session over an
// in-memory byte slice.
type td0Decompressor struct {
	buf []byte
	pos int
	eof bool

	advanced bool // "td" magic vs "TD" raw passthrough

	parent [td0TableSize + td0NumChars]int
	son    [td0TableSize]int
	freq   [td0TableSize + 1]int

	bits, bitBuff int

	ring  [td0RingSize + td0LookAhead - 1]byte
	ringR int
	state bool // mid-string extraction
	i, j, k int
}

func newTD0Decompressor(buf []byte, advanced bool) *td0Decompressor {
	d := &td0Decompressor{buf: buf, advanced: advanced}
	if advanced {
		d.initDecompress()
	}
	return d
}

func (d *td0Decompressor) initDecompress() {
	i, j := 0, 0
	for ; i < td0NumChars; i++ {
		d.freq[i] = 1
		d.son[i] = i + td0TableSize
		d.parent[i+td0TableSize] = i
	}
	for i <= td0Root {
		d.freq[i] = d.freq[j] + d.freq[j+1]
		d.son[i] = j
		d.parent[j] = i
		d.parent[j+1] = i
		i++
		j += 2
	}
	for k := range d.ring {
		d.ring[k] = ' '
	}
	d.freq[td0TableSize] = 0xFFFF
	d.parent[td0Root] = 0
	d.bitBuff = 0
	d.bits = 0
	d.ringR = td0RingSize - td0LookAhead
}

func (d *td0Decompressor) update(c int) {
	if d.freq[td0Root] == td0MaxFreq {
		i, j := 0, 0
		for ; i < td0TableSize; i++ {
			if d.son[i] >= td0TableSize {
				d.freq[j] = (d.freq[i] + 1) / 2
				d.son[j] = d.son[i]
				j++
			}
		}
		for i, j = 0, td0NumChars; j < td0TableSize; j++ {
			k := i + 1
			f := d.freq[i] + d.freq[k]
			d.freq[j] = f
			kk := j - 1
			for f < d.freq[kk] {
				kk--
			}
			kk++
			l := j - kk
			copy(d.freq[kk+1:kk+1+l], d.freq[kk:kk+l])
			d.freq[kk] = f
			copy(d.son[kk+1:kk+1+l], d.son[kk:kk+l])
			d.son[kk] = i
			i += 2
		}
		for i = 0; i < td0TableSize; i++ {
			if k := d.son[i]; k >= td0TableSize {
				d.parent[k] = i
			} else {
				d.parent[k] = i
				d.parent[k+1] = i
			}
		}
	}

	c = d.parent[c+td0TableSize]
	for {
		d.freq[c]++
		k := d.freq[c]
		l := c + 1
		if k > d.freq[l] {
			for k > d.freq[l+1] {
				l++
			}
			l++
			d.freq[c] = d.freq[l-1]
			d.freq[l] = k

			i := d.son[c]
			d.parent[i] = l
			if i < td0TableSize {
				d.parent[i+1] = l
			}
			j := d.son[l]
			d.parent[j] = c
			d.son[l] = i
			if j < td0TableSize {
				d.parent[j+1] = c
			}
			d.son[c] = j
			c = l
		}
		c = d.parent[c]
		if c == 0 {
			break
		}
	}
}

func (d *td0Decompressor) getChar() int {
	if d.pos < len(d.buf) {
		c := int(d.buf[d.pos])
		d.pos++
		return c
	}
	d.eof = true
	return 0
}

func (d *td0Decompressor) getBit() int {
	if d.bits == 0 {
		d.bitBuff |= d.getChar() << 8
		d.bits = 7
	} else {
		d.bits--
	}
	t := (d.bitBuff >> 15) & 1
	d.bitBuff = (d.bitBuff << 1) & 0xffff
	return t
}

func (d *td0Decompressor) getByte() int {
	if d.bits < 8 {
		d.bitBuff |= d.getChar() << (8 - d.bits)
	} else {
		d.bits -= 8
	}
	t := (d.bitBuff >> 8) & 0xff
	d.bitBuff = (d.bitBuff << 8) & 0xffff
	return t
}

func (d *td0Decompressor) decodeChar() int {
	c := td0Root
	for {
		c = d.son[c]
		if c >= td0TableSize {
			break
		}
		c += d.getBit()
	}
	c -= td0TableSize
	d.update(c)
	return c
}

func (d *td0Decompressor) decodePosition() int {
	i := d.getByte()
	c := int(td0DCode[i]) << 6
	j := int(td0DLen[i>>4])
	for j > 1 {
		i = (i << 1) | d.getBit()
		j--
	}
	return (i & 0x3f) | c
}

// GetByte returns the next decompressed byte, or -1 at end of stream in
// advanced-compression mode; in raw passthrough mode it returns 0 past the
// end. Mirrors TD0FloppyDisk::getbyte's state machine exactly.
func (d *td0Decompressor) GetByte() int {
	if !d.advanced {
		return d.getChar()
	}
	for {
		if d.eof {
			return -1
		}
		if !d.state {
			c := d.decodeChar()
			if c < 256 {
				d.ring[d.ringR] = byte(c)
				d.ringR = (d.ringR + 1) & (td0RingSize - 1)
				return c
			}
			d.state = true
			d.i = (d.ringR - d.decodePosition() - 1) & (td0RingSize - 1)
			d.j = c - 255 + td0Threshold
			d.k = 0
		}
		if d.k < d.j {
			c := d.ring[(d.k+d.i)&(td0RingSize-1)]
			d.ring[d.ringR] = c
			d.ringR = (d.ringR + 1) & (td0RingSize - 1)
			d.k++
			return int(c)
		}
		d.state = false
	}
}

// GetWord reads a little-endian 16-bit value via GetByte.
func (d *td0Decompressor) GetWord() int {
	lo := d.GetByte()
	hi := d.GetByte()
	return lo | (hi << 8)
}

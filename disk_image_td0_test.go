package main

import (
	"os"
	"path/filepath"
	"testing"
)

// td0Builder assembles a minimal uncompressed ("TD" magic) Teledisk image
// byte-by-byte, following TD0FloppyDisk.cpp's readTD0 layout.
type td0Builder struct {
	buf []byte
}

func newTD0Builder() *td0Builder {
	// 12-byte header: magic "TD", seq, checkseq, version, datarate(density
	// flag in bit7, cleared here for double density), drivetype, stepping
	// (comment flag in bit7, cleared: no comment block), sides.
	return &td0Builder{buf: []byte{'T', 'D', 0, 0, 0x15, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02}}
}

func (b *td0Builder) byte(v byte) *td0Builder { b.buf = append(b.buf, v); return b }
func (b *td0Builder) word(v int) *td0Builder  { return b.byte(byte(v)).byte(byte(v >> 8)) }

// track appends one track header (sector count, cylinder, side, crc) for
// the given cylinder/side.
func (b *td0Builder) track(sectors, cylinder, side byte) *td0Builder {
	return b.byte(sectors).byte(cylinder).byte(side).byte(0)
}

// sectorHeader appends one sector header (cyl, head, num, sizeCode, flags, crc).
func (b *td0Builder) sectorHeader(cyl, head, num, sizeCode, flags byte) *td0Builder {
	return b.byte(cyl).byte(head).byte(num).byte(sizeCode).byte(flags).byte(0)
}

// rawSector appends a raw (encoding 0) data block for the given payload.
func (b *td0Builder) rawSector(payload []byte) *td0Builder {
	// readTD0SectorBlock computes blockSize = word-1 and uses it as the raw
	// byte count, so the on-disk word is len(payload)+1 (the +1 accounts for
	// the encoding byte the format folds into the same length field).
	b.word(len(payload) + 1)
	b.byte(0) // encoding: raw
	b.buf = append(b.buf, payload...)
	return b
}

func (b *td0Builder) endOfTracks() *td0Builder {
	return b.byte(255).byte(0).byte(0).byte(0)
}

func (b *td0Builder) write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.td0")
	if err := os.WriteFile(path, b.buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenTD0FloppyDiskDecodesRawSector(t *testing.T) {
	payload := []byte{0x10, 0x20, 0x30, 0x40}
	path := newTD0Builder().
		track(1, 0, 0).
		sectorHeader(0, 0, 1, 0, 0).
		rawSector(payload).
		endOfTracks().
		write(t)

	img, err := OpenTD0FloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenTD0FloppyDisk: %v", err)
	}
	defer img.Eject()

	if img.NumTracks() != 1 {
		t.Errorf("NumTracks() = %d, want 1", img.NumTracks())
	}
	for i, want := range payload {
		if got := img.ReadData(0, 0, 1, i); got != DataValue(want) {
			t.Errorf("byte %d = %v, want %v", i, got, want)
		}
	}
	if got := img.ReadData(0, 0, 1, len(payload)); got != CRC {
		t.Errorf("reading past sector end = %v, want CRC", got)
	}
}

func TestOpenTD0FloppyDiskDecodesRepeatedPatternSector(t *testing.T) {
	// sizeCode=0 means a 128-byte sector; fill it exactly with 64 repeats of
	// the 2-byte pattern 0xAB,0xCD so the decoder's "until secSize" loop
	// terminates cleanly without consuming bytes meant for later tracks.
	path := newTD0Builder().
		track(1, 1, 0).
		sectorHeader(1, 0, 3, 0, 0)
	path.word(0)  // block size field: unused by the repeated-pattern decoder
	path.byte(1)  // encoding: repeated 2-byte pattern
	path.word(64) // run length: repeat 64 times -> 128 bytes total
	path.byte(0xAB).byte(0xCD)
	img, err := OpenTD0FloppyDisk(path.endOfTracks().write(t))
	if err != nil {
		t.Fatalf("OpenTD0FloppyDisk: %v", err)
	}
	defer img.Eject()

	want := []byte{0xAB, 0xCD, 0xAB, 0xCD}
	for i, w := range want {
		if got := img.ReadData(1, 0, 3, i); got != DataValue(w) {
			t.Errorf("byte %d = %v, want %v", i, got, w)
		}
	}
	if got := img.ReadData(1, 0, 3, 128); got != CRC {
		t.Errorf("byte 128 (past the 128-byte sector) = %v, want CRC", got)
	}
}

func TestOpenTD0FloppyDiskSkippedSectorHasNoData(t *testing.T) {
	// secFlags bit 0x30 set means "no data block present".
	path := newTD0Builder().
		track(1, 0, 0).
		sectorHeader(0, 0, 7, 0, 0x10).
		endOfTracks().
		write(t)

	img, err := OpenTD0FloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenTD0FloppyDisk: %v", err)
	}
	defer img.Eject()

	if got := img.ReadData(0, 0, 7, 0); got != CRC {
		t.Errorf("sector with no data block should read as CRC immediately, got %v", got)
	}
}

func TestOpenTD0FloppyDiskRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.td0")
	if err := os.WriteFile(path, []byte("XXnotanimagefile12"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := OpenTD0FloppyDisk(path); err == nil {
		t.Error("expected an error for an unrecognized magic")
	}
}

// encodeTD0Literals builds a genuine LZSS+adaptive-Huffman "advanced
// compression" bitstream encoding plain as an all-literal run (no
// back-references). It walks the same son/parent tables decodeChar reads,
// in reverse (leaf to root instead of root to leaf), and drives the
// identical update() after each byte so its tree evolves in lockstep with
// whatever td0Decompressor later decodes the result - the two never
// disagree because they are the same tree-construction code, run forwards
// and backwards.
func encodeTD0Literals(plain []byte) []byte {
	enc := &td0Decompressor{}
	enc.initDecompress()

	var bits []int
	for _, b := range plain {
		node := int(b) + td0TableSize
		var path []int
		for node != td0Root {
			p := enc.parent[node]
			if enc.son[p] == node {
				path = append(path, 0)
			} else {
				path = append(path, 1)
			}
			node = p
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		bits = append(bits, path...)
		enc.update(int(b))
	}

	var out []byte
	var cur byte
	n := 0
	for _, bit := range bits {
		cur = (cur << 1) | byte(bit)
		n++
		if n == 8 {
			out = append(out, cur)
			cur, n = 0, 0
		}
	}
	if n > 0 {
		cur <<= uint(8 - n)
		out = append(out, cur)
	}
	return out
}

// td0PlainBuilder accumulates the plaintext byte stream that would follow a
// TD0 image's 12-byte header, for encoding through encodeTD0Literals into a
// genuine "td" advanced-compression image.
type td0PlainBuilder struct {
	buf []byte
}

func (b *td0PlainBuilder) byte(v byte) *td0PlainBuilder { b.buf = append(b.buf, v); return b }
func (b *td0PlainBuilder) word(v int) *td0PlainBuilder  { return b.byte(byte(v)).byte(byte(v >> 8)) }

func (b *td0PlainBuilder) track(sectors, cylinder, side byte) *td0PlainBuilder {
	return b.byte(sectors).byte(cylinder).byte(side).byte(0)
}

func (b *td0PlainBuilder) sectorHeader(cyl, head, num, sizeCode, flags byte) *td0PlainBuilder {
	return b.byte(cyl).byte(head).byte(num).byte(sizeCode).byte(flags).byte(0)
}

func (b *td0PlainBuilder) rawSector(payload []byte) *td0PlainBuilder {
	b.word(len(payload) + 1)
	b.byte(0)
	b.buf = append(b.buf, payload...)
	return b
}

func (b *td0PlainBuilder) endOfTracks() *td0PlainBuilder {
	return b.byte(255).byte(0).byte(0).byte(0)
}

func (b *td0PlainBuilder) writeAdvanced(t *testing.T) string {
	t.Helper()
	compressed := encodeTD0Literals(b.buf)
	header := []byte{'t', 'd', 0, 0, 0x15, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02}
	full := append(append([]byte{}, header...), compressed...)
	path := filepath.Join(t.TempDir(), "advanced.td0")
	if err := os.WriteFile(path, full, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTD0DecompressorAdvancedCompressionRoundTrips(t *testing.T) {
	plain := []byte{0x01, 0x02, 0x03, 0x41, 0x42, 0x00, 0xff, 0x10, 0x10, 0x10}
	compressed := encodeTD0Literals(plain)

	dec := newTD0Decompressor(compressed, true)
	for i, want := range plain {
		if got := dec.GetByte(); got != int(want) {
			t.Fatalf("byte %d: GetByte() = %#x, want %#x", i, got, want)
		}
	}
}

func TestOpenTD0FloppyDiskDecodesAdvancedCompressionSector(t *testing.T) {
	payload := []byte{0x10, 0x20, 0x30, 0x40}
	path := (&td0PlainBuilder{}).
		track(1, 0, 0).
		sectorHeader(0, 0, 1, 0, 0).
		rawSector(payload).
		endOfTracks().
		writeAdvanced(t)

	img, err := OpenTD0FloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenTD0FloppyDisk (advanced compression): %v", err)
	}
	defer img.Eject()

	for i, want := range payload {
		if got := img.ReadData(0, 0, 1, i); got != DataValue(want) {
			t.Errorf("byte %d = %v, want %v", i, got, want)
		}
	}
}

func TestTD0DecompressorRawPassthroughAndEOF(t *testing.T) {
	dec := newTD0Decompressor([]byte{0x01, 0x02, 0x03}, false)

	for _, want := range []int{0x01, 0x02, 0x03} {
		if got := dec.GetByte(); got != want {
			t.Errorf("GetByte() = %#x, want %#x", got, want)
		}
	}
	// Past the end, raw passthrough reports 0 (getChar's EOF sentinel) rather
	// than -1, since GetByte only returns -1 in advanced-compression mode.
	if got := dec.GetByte(); got != 0 {
		t.Errorf("GetByte() past EOF = %d, want 0", got)
	}
}

func TestTD0DecompressorWordIsLittleEndian(t *testing.T) {
	dec := newTD0Decompressor([]byte{0x34, 0x12}, false)
	if got := dec.GetWord(); got != 0x1234 {
		t.Errorf("GetWord() = %#x, want 0x1234", got)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeIMDImage builds a single-track, single-side .imd image with one
// normal (uncompressed) sector and one compressed (fill-byte) sector.
func writeIMDImage(t *testing.T) string {
	t.Helper()
	buf := []byte("IMD test comment\x1a")

	// Track header: mode=0 (single density), cyl=0, head=0 (no cyl/head maps), 2 sectors, sizeKey=0 (128 bytes).
	buf = append(buf, 0x00, 0x00, 0x00, 0x02, 0x00)
	buf = append(buf, 0x01, 0x02) // sector order: logical 1, then 2

	// Sector 1: type=1 (normal), 128 bytes of 0xAA.
	buf = append(buf, 0x01)
	sector1 := make([]byte, 128)
	for i := range sector1 {
		sector1[i] = 0xAA
	}
	buf = append(buf, sector1...)

	// Sector 2: type=2 (compressed), fill byte 0x55.
	buf = append(buf, 0x02, 0x55)

	path := filepath.Join(t.TempDir(), "test.imd")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenIMDFloppyDiskDecodesNormalAndCompressedSectors(t *testing.T) {
	path := writeIMDImage(t)
	img, err := OpenIMDFloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenIMDFloppyDisk: %v", err)
	}
	defer img.Eject()

	if img.NumTracks() != 1 {
		t.Errorf("NumTracks() = %d, want 1", img.NumTracks())
	}
	if img.NumSides() != 1 {
		t.Errorf("NumSides() = %d, want 1", img.NumSides())
	}

	if got := img.ReadData(0, 0, 1, 0); got != DataValue(0xAA) {
		t.Errorf("sector 1 byte 0 = %v, want 0xAA", got)
	}
	if got := img.ReadData(0, 0, 1, 127); got != DataValue(0xAA) {
		t.Errorf("sector 1 byte 127 = %v, want 0xAA", got)
	}
	if got := img.ReadData(0, 0, 1, 128); got != CRC {
		t.Errorf("reading past the sector end should report CRC, got %v", got)
	}

	if got := img.ReadData(0, 0, 2, 0); got != DataValue(0x55) {
		t.Errorf("compressed sector 2 byte 0 = %v, want the fill byte 0x55", got)
	}
	if got := img.ReadData(0, 0, 2, 100); got != DataValue(0x55) {
		t.Errorf("compressed sector 2 byte 100 = %v, want the fill byte 0x55", got)
	}
}

func TestOpenIMDFloppyDiskAddressMarkAndMissingSector(t *testing.T) {
	path := writeIMDImage(t)
	img, err := OpenIMDFloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenIMDFloppyDisk: %v", err)
	}
	defer img.Eject()

	if got := img.ReadData(0, 0, 1, -1); got != IDAM {
		t.Errorf("inSector=-1 should report IDAM, got %v", got)
	}
	if got := img.ReadData(5, 0, 1, 0); got != NoData {
		t.Errorf("reading a track that doesn't exist should report NoData, got %v", got)
	}
	if got := img.ReadData(0, 0, 9, 0); got != NoData {
		t.Errorf("reading a sector number not on the track should report NoData, got %v", got)
	}
}

func TestOpenIMDFloppyDiskWriteUpdatesSectorAndClearsCompressedFlag(t *testing.T) {
	path := writeIMDImage(t)
	img, err := OpenIMDFloppyDisk(path)
	if err != nil {
		t.Fatalf("OpenIMDFloppyDisk: %v", err)
	}
	defer img.Eject()

	got := img.WriteData(0, 0, 2, 3, 0x42, true)
	if got != DataValue(0x42) {
		t.Fatalf("WriteData = %v, want 0x42", got)
	}
	if got := img.ReadData(0, 0, 2, 3); got != DataValue(0x42) {
		t.Errorf("ReadData after write = %v, want 0x42", got)
	}
	// The rest of the formerly-compressed sector should keep its fill value.
	if got := img.ReadData(0, 0, 2, 4); got != DataValue(0x55) {
		t.Errorf("untouched byte of a decompressed sector = %v, want 0x55", got)
	}
}

func TestOpenIMDFloppyDiskRejectsMissingTerminator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.imd")
	if err := os.WriteFile(path, []byte("no terminator here"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := OpenIMDFloppyDisk(path); err == nil {
		t.Error("expected an error when the comment header has no 0x1a terminator")
	}
}

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeRawImage builds a minimal valid raw floppy image: a 128-byte ASCII
// geometry header (spec.md §6 grammar) followed by flat sector data.
func writeRawImage(t *testing.T, cylinders, sides, sectorsPerTrack, sectorSize int) string {
	t.Helper()
	header := make([]byte, rawHeaderSize)
	line := []byte(
		strconv.Itoa(cylinders) + "c" +
			strconv.Itoa(sides) + "h" +
			strconv.Itoa(sectorSize) + "z" +
			strconv.Itoa(sectorsPerTrack) + "p" +
			strconv.Itoa(sides) + "s" +
			strconv.Itoa(cylinders) + "t" +
			"0d0i0l\n",
	)
	copy(header, line)

	dataSize := cylinders * sides * sectorsPerTrack * sectorSize
	path := filepath.Join(t.TempDir(), "test.raw")
	content := append(header, make([]byte, dataSize)...)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRawFloppyImageReadWriteRoundTrip(t *testing.T) {
	path := writeRawImage(t, 2, 1, 2, 16)

	img, err := OpenRawFloppyImage(path)
	require.NoError(t, err)
	defer img.Eject()

	require.Equal(t, 2, img.NumTracks())
	require.Equal(t, 1, img.NumSides())
	require.Equal(t, 2, img.SectorsPerTrack())
	require.Equal(t, 16, img.SectorSize())

	got := img.WriteData(0, 0, 0, 3, 0xAB, true)
	require.Equal(t, DataValue(0xAB), got)

	require.Equal(t, DataValue(0xAB), img.ReadData(0, 0, 0, 3))
}

func TestRawFloppyImageAddressMarkAndCRC(t *testing.T) {
	path := writeRawImage(t, 1, 1, 1, 8)
	img, err := OpenRawFloppyImage(path)
	require.NoError(t, err)
	defer img.Eject()

	require.Equal(t, IDAM, img.ReadData(0, 0, 0, -1))
	require.Equal(t, CRC, img.ReadData(0, 0, 0, 8))
	require.Equal(t, NoData, img.ReadData(5, 0, 0, 0))
}

func TestRawFloppyImageFindSector(t *testing.T) {
	path := writeRawImage(t, 2, 2, 4, 16)
	img, err := OpenRawFloppyImage(path)
	require.NoError(t, err)
	defer img.Eject()

	require.True(t, img.FindSector(1, 1, 3))
	require.False(t, img.FindSector(2, 0, 0))
	require.False(t, img.FindSector(0, 5, 0))
}

func TestOpenRawFloppyImageRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.raw")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0o644))

	_, err := OpenRawFloppyImage(path)
	require.Error(t, err)
}

package main

import "testing"

// fakeFloppyDisk is a minimal in-memory FloppyDisk for drive-level tests
// that don't need a real image format on disk.
type fakeFloppyDisk struct {
	diskBase
	sectors map[[3]byte][]byte
}

func newFakeFloppyDisk(tracks, sides, sectorsPerTrack, sectorSize int) *fakeFloppyDisk {
	return &fakeFloppyDisk{
		diskBase: diskBase{
			numTracks:       tracks,
			numSides:        sides,
			sectorsPerTrack: sectorsPerTrack,
			sectorSize:      sectorSize,
		},
		sectors: map[[3]byte][]byte{},
	}
}

func (f *fakeFloppyDisk) ReadData(track, side, sector byte, inSector int) DataValue {
	if inSector < 0 {
		return IDAM
	}
	buf := f.sectors[[3]byte{track, side, sector}]
	if inSector >= len(buf) {
		return CRC
	}
	return DataValue(buf[inSector])
}

func (f *fakeFloppyDisk) WriteData(track, side, sector byte, inSector int, data byte, dataReady bool) DataValue {
	key := [3]byte{track, side, sector}
	buf := f.sectors[key]
	if buf == nil {
		buf = make([]byte, f.sectorSize)
		f.sectors[key] = buf
	}
	if inSector >= 0 && inSector < len(buf) {
		buf[inSector] = data
	}
	return DataValue(data)
}

func (f *fakeFloppyDisk) FindSector(side, track, sector int) bool {
	return sector < f.sectorsPerTrack
}

func (f *fakeFloppyDisk) Eject() {}

func TestFloppyDriveStepClampsAtTravelLimits(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(2, 77, Media8Inch, clock)

	for i := 0; i < 10; i++ {
		drv.Step(false)
	}
	if !drv.TrackZero() {
		t.Fatal("stepping out past track 0 should clamp, not go negative")
	}

	for i := 0; i < 100; i++ {
		drv.Step(true)
	}
	if drv.TrackZero() {
		t.Fatal("drive should have stepped away from track zero")
	}
}

func TestFloppyDrive8InchStartsSpinningAndLoaded(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 77, Media8Inch, clock)
	if !drv.motorOn {
		t.Error("8in drives should start with the motor already running")
	}
	if !drv.headLoaded {
		t.Error("8in drives should start with the head already loaded")
	}
}

func TestFloppyDrive525InchStartsStoppedAndUnloaded(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 40, Media525Inch, clock)
	if drv.motorOn {
		t.Error("5.25in drives should start with the motor stopped")
	}
	if drv.headLoaded {
		t.Error("5.25in drives should start with the head unloaded")
	}
}

func TestFloppyDriveReadWriteDataDelegatesToDisk(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 40, Media525Inch, clock)
	disk := newFakeFloppyDisk(40, 1, 10, 128)
	drv.InsertDisk(disk)

	got := drv.WriteData(false, 0, 0, 2, 5, 0x99, true)
	if got != DataValue(0x99) {
		t.Fatalf("WriteData = %v, want 0x99", got)
	}
	if got := drv.ReadData(false, 0, 0, 2, 5); got != DataValue(0x99) {
		t.Errorf("ReadData = %v, want 0x99", got)
	}
}

func TestFloppyDriveReadDataWithoutDiskReturnsError(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 40, Media525Inch, clock)
	if got := drv.ReadData(false, 0, 0, 0, 0); got != ErrVal {
		t.Errorf("ReadData with no disk = %v, want ErrVal", got)
	}
}

func TestFloppyDriveHeadLoadIgnoredOn525Inch(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 40, Media525Inch, clock)
	drv.HeadLoad(true)
	if drv.headLoaded {
		t.Error("HeadLoad should be ignored on 5.25in media")
	}
}

func TestFloppyDriveAppliesHyperTrackCorrectionOnReadWrite(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 80, Media525Inch, clock)
	disk := newFakeFloppyDisk(160, 1, 10, 128)
	disk.hyperTrack = true // single-step drive on double-step (80-track) media
	drv.InsertDisk(disk)

	for i := 0; i < 3; i++ {
		drv.Step(true)
	}

	drv.WriteData(false, 0, 0, 2, 0, 0x42, true)

	key := [3]byte{6, 0, 2} // real track = drive track(3) * 2
	got := disk.sectors[key]
	if len(got) == 0 || got[0] != 0x42 {
		t.Fatalf("write landed on the wrong track: want real track 6 written, sectors=%v", disk.sectors)
	}

	if got := drv.ReadData(false, 0, 0, 2, 0); got != DataValue(0x42) {
		t.Errorf("ReadData after hyper-track correction = %v, want 0x42", got)
	}
}

func TestFloppyDriveAppliesHypoTrackCorrectionOnReadWrite(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 80, Media525Inch, clock)
	disk := newFakeFloppyDisk(40, 1, 10, 128)
	disk.hypoTrack = true // double-step drive on single-step (40-track) media
	drv.InsertDisk(disk)

	for i := 0; i < 6; i++ {
		drv.Step(true)
	}

	drv.WriteData(false, 0, 0, 2, 0, 0x7, true)

	key := [3]byte{3, 0, 2} // real track = drive track(6) / 2
	got := disk.sectors[key]
	if len(got) == 0 || got[0] != 0x7 {
		t.Fatalf("write landed on the wrong track: want real track 3 written, sectors=%v", disk.sectors)
	}
}

func TestFloppyDriveInsertDiskTracksWriteProtect(t *testing.T) {
	clock := NewWallClock(1_000_000, 2000)
	drv := NewFloppyDrive(1, 40, Media525Inch, clock)
	disk := newFakeFloppyDisk(40, 1, 10, 128)
	disk.writeProtect = true

	drv.InsertDisk(disk)
	if !drv.writeProtect {
		t.Error("drive should pick up the inserted disk's write-protect state")
	}

	drv.InsertDisk(nil)
	if drv.writeProtect {
		t.Error("ejecting (InsertDisk(nil)) should clear write-protect")
	}
}

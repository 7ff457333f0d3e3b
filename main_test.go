package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDriveGeometryDefaultsTracksByMediaSize(t *testing.T) {
	heads, tracks, media, err := parseDriveGeometry("8-ds")
	if err != nil {
		t.Fatalf("parseDriveGeometry: %v", err)
	}
	if heads != 2 || tracks != 77 || media != Media8Inch {
		t.Errorf("got (%d, %d, %v), want (2, 77, Media8Inch)", heads, tracks, media)
	}

	heads, tracks, media, err = parseDriveGeometry("525-ss")
	if err != nil {
		t.Fatalf("parseDriveGeometry: %v", err)
	}
	if heads != 1 || tracks != 40 || media != Media525Inch {
		t.Errorf("got (%d, %d, %v), want (1, 40, Media525Inch)", heads, tracks, media)
	}
}

func TestParseDriveGeometryExplicitTrackCountOverridesDefault(t *testing.T) {
	_, tracks, _, err := parseDriveGeometry("8-ds-80")
	if err != nil {
		t.Fatalf("parseDriveGeometry: %v", err)
	}
	if tracks != 80 {
		t.Errorf("tracks = %d, want 80", tracks)
	}
}

func TestParseDriveGeometryRejectsBadInput(t *testing.T) {
	cases := []string{"", "8", "3-ds", "8-quad", "8-ds-x", "8-ds-0"}
	for _, c := range cases {
		if _, _, _, err := parseDriveGeometry(c); err == nil {
			t.Errorf("parseDriveGeometry(%q): expected an error, got none", c)
		}
	}
}

func TestBootMachineRequiresROMPath(t *testing.T) {
	if _, err := bootMachine("", ""); err == nil {
		t.Error("expected an error booting with no ROM path")
	}
}

func TestBootMachineAppliesConfigAndConnectsDrives(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "boot.rom")
	if err := os.WriteFile(romPath, make([]byte, 8192), 0o644); err != nil {
		t.Fatalf("WriteFile rom: %v", err)
	}

	configPath := filepath.Join(dir, "h89.conf")
	config := "gpp_dipsw=0b00001111\nh37_drive1=8-ds-77\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}

	m, err := bootMachine(romPath, configPath)
	if err != nil {
		t.Fatalf("bootMachine: %v", err)
	}

	if _, ok := m.Drive("H37-1"); !ok {
		t.Error("expected h37_drive1 from the config to have connected a drive as H37-1")
	}
	if got := m.gpp.In(gppBase); got != 0b00001111 {
		t.Errorf("GPP dip switches = %08b, want %08b", got, 0b00001111)
	}
}

func TestBootMachineRejectsBadDriveGeometryInConfig(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "boot.rom")
	if err := os.WriteFile(romPath, make([]byte, 8192), 0o644); err != nil {
		t.Fatalf("WriteFile rom: %v", err)
	}

	configPath := filepath.Join(dir, "h89.conf")
	if err := os.WriteFile(configPath, []byte("h37_drive1=bogus-geometry\n"), 0o644); err != nil {
		t.Fatalf("WriteFile config: %v", err)
	}

	_, err := bootMachine(romPath, configPath)
	if err == nil {
		t.Fatal("expected an error from an unparsable drive geometry")
	}
	if !strings.Contains(err.Error(), "h37_drive1") {
		t.Errorf("error = %q, want it to name the offending config key", err.Error())
	}
}

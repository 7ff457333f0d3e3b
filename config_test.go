package main

import (
	"strings"
	"testing"
)

func TestParseConfigBasic(t *testing.T) {
	input := `
# a comment
gpp_dipsw=00010100

h37_drive1=8-ds-77
h37_disk1=boot.imd

mms77316_drive1=525-ss
mms77316_disk1=util.td0

unknown_key=ignored
`
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.GPPDipSwitches != 0b00010100 {
		t.Errorf("GPPDipSwitches = %08b, want %08b", cfg.GPPDipSwitches, 0b00010100)
	}

	if len(cfg.H37Drives) != 1 {
		t.Fatalf("H37Drives = %v, want 1 entry", cfg.H37Drives)
	}
	h37 := cfg.H37Drives[0]
	if h37.Unit != 0 || h37.Drive != "8-ds-77" || h37.Disk != "boot.imd" {
		t.Errorf("H37Drives[0] = %+v, want {Unit:0 Drive:8-ds-77 Disk:boot.imd}", h37)
	}

	if len(cfg.MMS77316Drives) != 1 {
		t.Fatalf("MMS77316Drives = %v, want 1 entry", cfg.MMS77316Drives)
	}
	mms := cfg.MMS77316Drives[0]
	if mms.Unit != 0 || mms.Drive != "525-ss" || mms.Disk != "util.td0" {
		t.Errorf("MMS77316Drives[0] = %+v, want {Unit:0 Drive:525-ss Disk:util.td0}", mms)
	}
}

func TestParseConfigMMS77320KeysRetained(t *testing.T) {
	input := `
mms77320_port=jp1a
mms77320_intr=jp2b
mms77320_dipsw=00000011
`
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.MMS77320Port != "jp1a" {
		t.Errorf("MMS77320Port = %q, want jp1a", cfg.MMS77320Port)
	}
	if cfg.MMS77320Intr != "jp2b" {
		t.Errorf("MMS77320Intr = %q, want jp2b", cfg.MMS77320Intr)
	}
	if cfg.MMS77320DipSw != 0b11 {
		t.Errorf("MMS77320DipSw = %08b, want %08b", cfg.MMS77320DipSw, 0b11)
	}
}

func TestParseConfigMultipleDriveUnits(t *testing.T) {
	input := `
h17_drive1=8-ss
h17_drive3=8-ds
`
	cfg, err := ParseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if len(cfg.H17Drives) != 2 {
		t.Fatalf("H17Drives = %v, want 2 entries", cfg.H17Drives)
	}
	units := map[int]string{}
	for _, d := range cfg.H17Drives {
		units[d.Unit] = d.Drive
	}
	if units[0] != "8-ss" || units[2] != "8-ds" {
		t.Errorf("H17Drives units = %v, want {0:8-ss 2:8-ds}", units)
	}
}

func TestParseConfigRejectsMissingEquals(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("not_an_assignment"))
	if err == nil {
		t.Fatal("expected error for line without '='")
	}
}

func TestParseConfigRejectsBadBinaryLiteral(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("gpp_dipsw=not-binary"))
	if err == nil {
		t.Fatal("expected error for non-binary gpp_dipsw value")
	}
}

func TestParseBinaryLiteralAccepts0bPrefix(t *testing.T) {
	v, err := parseBinaryLiteral("0b101")
	if err != nil {
		t.Fatalf("parseBinaryLiteral: %v", err)
	}
	if v != 0b101 {
		t.Errorf("parseBinaryLiteral(0b101) = %d, want 5", v)
	}
}

// config.go - properties-file (key=value) startup configuration (spec.md
// §6), parsed and applied the way H89Operator.cpp mounts drives from its
// property map at startup.
//
// Grounded on original_source/Src/config.h (confirms the H89 family is
// configured via compile-time/property toggles rather than a config
// library) and original_source/VirtualH89/Src/h89.cpp & H37/MMS77316's
// install_* factory functions, which all read a PropertyUtil::PropertyMapT
// keyed exactly like spec.md §6 describes. No config-file library appears
// anywhere in the retrieved pack, so this is a small hand-rolled
// key=value line parser rather than e.g. viper/toml - see DESIGN.md.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DriveDiskSpec is one `<controller>_drive<N>`/`<controller>_disk<N>` pair:
// drive<N> names the geometry/unit to create, disk<N> the image file to
// mount into it.
type DriveDiskSpec struct {
	Unit  int
	Drive string
	Disk  string
}

// Config holds every recognised property (spec.md §6); unknown keys are
// ignored, matching "Unknown keys are ignored" verbatim.
type Config struct {
	GPPDipSwitches byte

	H17Drives      []DriveDiskSpec
	H37Drives      []DriveDiskSpec
	MMS77316Drives []DriveDiskSpec

	// MMS77320 is a SASI host adapter (original_source mms77320.{h,cpp});
	// the SASI adapter protocol itself is out of core scope (spec.md §1),
	// so these three keys are parsed and retained but never wired to a
	// live card - see DESIGN.md.
	MMS77320Port  string // jp1a | jp1b
	MMS77320Intr  string // jp2a | jp2b | jp2c
	MMS77320DipSw byte
}

// ParseConfig reads a key=value properties file (one assignment per line,
// '#' comments, blank lines ignored).
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	drives := map[string]map[int]*DriveDiskSpec{
		"h17":      {},
		"h37":      {},
		"mms77316": {},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config line %d: missing '='", lineNo)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch {
		case key == "gpp_dipsw":
			v, err := parseBinaryLiteral(val)
			if err != nil {
				return nil, fmt.Errorf("config %s: %w", key, err)
			}
			cfg.GPPDipSwitches = v

		case key == "mms77320_port":
			cfg.MMS77320Port = val
		case key == "mms77320_intr":
			cfg.MMS77320Intr = val
		case key == "mms77320_dipsw":
			v, err := parseBinaryLiteral(val)
			if err != nil {
				return nil, fmt.Errorf("config %s: %w", key, err)
			}
			cfg.MMS77320DipSw = v

		default:
			if !matchDriveDiskKey(key, val, drives) {
				// Unknown keys are ignored (spec.md §6).
				continue
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	cfg.H17Drives = flattenSpecs(drives["h17"])
	cfg.H37Drives = flattenSpecs(drives["h37"])
	cfg.MMS77316Drives = flattenSpecs(drives["mms77316"])
	return cfg, nil
}

// matchDriveDiskKey handles the `<controller>_drive<N>`/`<controller>_disk<N>`
// family of keys for one of the three recognised controller prefixes.
func matchDriveDiskKey(key, val string, drives map[string]map[int]*DriveDiskSpec) bool {
	for prefix, units := range drives {
		if n, ok := suffixedIndex(key, prefix+"_drive"); ok {
			spec := units[n]
			if spec == nil {
				spec = &DriveDiskSpec{Unit: n - 1}
				units[n] = spec
			}
			spec.Drive = val
			return true
		}
		if n, ok := suffixedIndex(key, prefix+"_disk"); ok {
			spec := units[n]
			if spec == nil {
				spec = &DriveDiskSpec{Unit: n - 1}
				units[n] = spec
			}
			spec.Disk = val
			return true
		}
	}
	return false
}

// suffixedIndex reports whether key is prefix followed by a positive
// decimal integer N (the 1-based drive/disk index, spec.md §6's
// "h17_drive1..N" notation), returning N.
func suffixedIndex(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	rest := key[len(prefix):]
	if rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func flattenSpecs(units map[int]*DriveDiskSpec) []DriveDiskSpec {
	out := make([]DriveDiskSpec, 0, len(units))
	for _, s := range units {
		out = append(out, *s)
	}
	return out
}

// parseBinaryLiteral parses dip-switch settings written as a binary
// literal, e.g. "00010100" (spec.md §6: "gpp_dipsw (binary literal)").
func parseBinaryLiteral(s string) (byte, error) {
	s = strings.TrimPrefix(s, "0b")
	v, err := strconv.ParseUint(s, 2, 8)
	if err != nil {
		return 0, fmt.Errorf("not a binary literal: %q", s)
	}
	return byte(v), nil
}

// Package gnss contains common constants and type definitions shared by
// GNSS file formats: satellite systems and satellite identifiers.
package gnss

import (
	"fmt"
	"strconv"
	"strings"
)

// System is a satellite system.
type System int

// Available satellite systems.
const (
	SysGPS System = iota + 1
	SysGLO
	SysGAL
	SysQZSS
	SysBDS
	SysIRNSS
	SysSBAS
	SysMixed
)

func (sys System) String() string {
	return [...]string{"", "GPS", "GLONASS", "Galileo", "QZSS", "BeiDou", "IRNSS", "SBAS", "Mixed"}[sys]
}

// Abbr returns the system's single-letter abbreviation, as used in the
// SV text form (e.g. "G" for GPS).
func (sys System) Abbr() string {
	return [...]string{"", "G", "R", "E", "J", "C", "I", "S", "M"}[sys]
}

// sysPerAbbr maps the single-letter SV prefix to its System.
var sysPerAbbr = map[string]System{
	"G": SysGPS,
	"R": SysGLO,
	"E": SysGAL,
	"J": SysQZSS,
	"C": SysBDS,
	"I": SysIRNSS,
	"S": SysSBAS,
	"M": SysMixed,
}

// SystemByAbbr looks up a System by its single-letter abbreviation.
func SystemByAbbr(abbr string) (System, bool) {
	sys, ok := sysPerAbbr[abbr]
	return sys, ok
}

// Systems is a list of satellite systems.
type Systems []System

// String returns the contained systems' names joined with "+", e.g.
// "GPS+GLONASS".
func (syss Systems) String() string {
	str := make([]string, 0, len(syss))
	for _, sys := range syss {
		str = append(str, sys.String())
	}
	return strings.Join(str, "+")
}

// SV identifies a GNSS space vehicle by its system and PRN number.
type SV struct {
	Sys System
	PRN uint8
}

// NewSV returns a new SV for system sys and PRN number prn.
func NewSV(sys System, prn uint8) SV {
	return SV{Sys: sys, PRN: prn}
}

// ParseSV parses the text form of an SV, e.g. "G01" or "E05".
// A bare two-digit PRN with no leading system letter (SP3 revision a)
// is not accepted here; callers on that revision should use
// ParseSVGPSOnly instead.
func ParseSV(s string) (SV, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return SV{}, fmt.Errorf("gnss: invalid SV %q", s)
	}

	sys, ok := sysPerAbbr[s[:1]]
	if !ok {
		return SV{}, fmt.Errorf("gnss: invalid satellite system in SV %q", s)
	}

	n, err := strconv.Atoi(strings.TrimSpace(s[1:]))
	if err != nil {
		return SV{}, fmt.Errorf("gnss: invalid PRN in SV %q: %w", s, err)
	}
	if n < 0 || n > 255 {
		return SV{}, fmt.Errorf("gnss: PRN out of range in SV %q", s)
	}

	return SV{Sys: sys, PRN: uint8(n)}, nil
}

// ParseSVGPSOnly parses a bare two-digit PRN (no system letter), as found
// in SP3 revision a position/velocity lines, and returns a GPS SV.
func ParseSVGPSOnly(s string) (SV, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return SV{}, fmt.Errorf("gnss: invalid PRN %q: %w", s, err)
	}
	return SV{Sys: SysGPS, PRN: uint8(n)}, nil
}

// String is the SV Stringer: one letter plus a zero-padded 2-digit PRN.
func (sv SV) String() string {
	return fmt.Sprintf("%s%02d", sv.Sys.Abbr(), sv.PRN)
}

// Less orders SVs by (System, PRN), the order SP3 blocks use within an
// epoch.
func (sv SV) Less(other SV) bool {
	if sv.Sys != other.Sys {
		return sv.Sys < other.Sys
	}
	return sv.PRN < other.PRN
}

// BySV implements sort.Interface for a slice of SVs ordered by (System, PRN).
type BySV []SV

func (s BySV) Len() int           { return len(s) }
func (s BySV) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s BySV) Less(i, j int) bool { return s[i].Less(s[j]) }

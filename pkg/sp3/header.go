package sp3

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

// Version is the SP3 file revision letter.
type Version int

// Supported revisions.
const (
	VersionA Version = iota
	VersionB
	VersionC
	VersionD
)

func (v Version) String() string {
	switch v {
	case VersionA:
		return "a"
	case VersionB:
		return "b"
	case VersionC:
		return "c"
	case VersionD:
		return "d"
	default:
		return "?"
	}
}

// ParseVersion maps the single revision letter following the leading '#'
// to a Version.
func ParseVersion(c byte) (Version, error) {
	switch c {
	case 'a':
		return VersionA, nil
	case 'b':
		return VersionB, nil
	case 'c':
		return VersionC, nil
	case 'd':
		return VersionD, nil
	default:
		return 0, ErrNonSupportedRevision
	}
}

// DataType distinguishes a position-only file from one that also carries
// velocities.
type DataType int

// Supported data types.
const (
	DataTypePosition DataType = iota
	DataTypeVelocity
)

func (d DataType) String() string {
	if d == DataTypeVelocity {
		return "V"
	}
	return "P"
}

// ParseDataType maps the H1 data-type letter to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "P":
		return DataTypePosition, nil
	case "V":
		return DataTypeVelocity, nil
	default:
		return 0, ErrUnknownDataType
	}
}

// OrbitType is the fitting method that produced the orbit.
type OrbitType int

// Supported orbit types.
const (
	OrbitFIT OrbitType = iota
	OrbitEXT
	OrbitBCT
	OrbitBHN
	OrbitHLM
)

func (o OrbitType) String() string {
	switch o {
	case OrbitFIT:
		return "FIT"
	case OrbitEXT:
		return "EXT"
	case OrbitBCT:
		return "BCT"
	case OrbitBHN:
		return "BHN"
	case OrbitHLM:
		return "HLM"
	default:
		return "???"
	}
}

// ParseOrbitType maps the H1 orbit-type field to an OrbitType.
func ParseOrbitType(s string) (OrbitType, error) {
	switch s {
	case "FIT":
		return OrbitFIT, nil
	case "EXT":
		return OrbitEXT, nil
	case "BCT":
		return OrbitBCT, nil
	case "BHN":
		return OrbitBHN, nil
	case "HLM":
		return OrbitHLM, nil
	default:
		return 0, ErrUnknownOrbitType
	}
}

// Header is the full preamble of an SP3 record: H1, H2 and the two %c
// descriptor lines.
type Header struct {
	Version      Version
	DataType     DataType
	ReleaseEpoch Epoch

	CoordSystem string
	OrbitType   OrbitType
	Observables string
	NumEpochs   uint64
	Agency      string

	Constellation gnss.System
	Timescale     Scale

	Week           uint32
	WeekNanos      uint64
	MJD            uint32
	MJDFraction    float64
	SamplingPeriod time.Duration

	Satellites []gnss.SV

	// Labels holds header line labels for diagnostics only; it plays no
	// part in round-trip. The Decoder does not fill it.
	Labels []string
}

// Validate checks field-level constraints (agency/observables/coord-system
// width, enum membership already guaranteed by the typed fields) using the
// shared validator instance.
func (h Header) Validate() error {
	return validate.Struct(headerValidation{
		Agency:      h.Agency,
		Observables: h.Observables,
		CoordSystem: h.CoordSystem,
	})
}

type headerValidation struct {
	Agency      string `validate:"max=3"`
	Observables string `validate:"max=5"`
	CoordSystem string `validate:"max=6"`
}

// ParseH1 parses the first header line.
func ParseH1(line string) (Header, error) {
	var h Header

	if len(line) < 60 || line[0] != '#' {
		return h, MalformedH1(line)
	}

	version, err := ParseVersion(line[1])
	if err != nil {
		return h, err
	}
	h.Version = version

	dataType, err := ParseDataType(line[2:3])
	if err != nil {
		return h, err
	}
	h.DataType = dataType

	year, err1 := strconv.Atoi(strings.TrimSpace(line[3:7]))
	month, err2 := strconv.Atoi(strings.TrimSpace(line[8:10]))
	day, err3 := strconv.Atoi(strings.TrimSpace(line[11:13]))
	hour, err4 := strconv.Atoi(strings.TrimSpace(line[14:16]))
	minute, err5 := strconv.Atoi(strings.TrimSpace(line[17:19]))
	sec, err6 := strconv.Atoi(strings.TrimSpace(line[20:22]))
	nanosTenNs, err7 := strconv.Atoi(strings.TrimSpace(line[23:31]))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil {
		return h, MalformedH1(line)
	}
	h.ReleaseEpoch = parseH1Date(year, month, day, hour, minute, sec, nanosTenNs)

	numEpochs, err := strconv.ParseUint(strings.TrimSpace(line[32:40]), 10, 64)
	if err != nil {
		return h, &ParseNumericError{Field: "num_epochs", Value: line[32:40], Err: err}
	}
	h.NumEpochs = numEpochs

	h.Observables = strings.TrimSpace(line[40:45])
	h.CoordSystem = strings.TrimSpace(line[45:51])

	orbitType, err := ParseOrbitType(strings.TrimSpace(line[51:55]))
	if err != nil {
		return h, err
	}
	h.OrbitType = orbitType

	h.Agency = strings.TrimSpace(line[57:])

	return h, nil
}

// FormatH1 renders the first header line.
func FormatH1(h Header) string {
	t := h.ReleaseEpoch.Time()
	return fmt.Sprintf(
		"#%s%s%04d %2d %2d %2d %2d %2d.%08d %7d %s %s %s  %s",
		h.Version, h.DataType,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/10, h.NumEpochs, h.Observables, h.CoordSystem, h.OrbitType, h.Agency,
	)
}

// ParseH2 parses the second header line and fills week/sampling fields
// into h.
func ParseH2(line string, h *Header) error {
	if len(line) < 60 || !strings.HasPrefix(line, "##") {
		return MalformedH2(line)
	}

	week, err1 := strconv.ParseUint(strings.TrimSpace(line[2:7]), 10, 32)
	sowInt, err2 := strconv.ParseUint(strings.TrimSpace(line[7:14]), 10, 64)
	sowFracTenNs, err3 := strconv.ParseUint(strings.TrimSpace(line[15:23]), 10, 64)
	dtS, err4 := strconv.ParseUint(strings.TrimSpace(line[24:29]), 10, 64)
	dtNanosTenNs, err5 := strconv.ParseUint(strings.TrimSpace(line[30:38]), 10, 64)
	mjd, err6 := strconv.ParseUint(strings.TrimSpace(line[38:44]), 10, 32)
	mjdFrac, err7 := strconv.ParseFloat(strings.TrimSpace(line[45:]), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil || err7 != nil {
		return MalformedH2(line)
	}

	h.Week = uint32(week)
	h.WeekNanos = sowInt*1e9 + sowFracTenNs*10
	h.MJD = uint32(mjd)
	h.MJDFraction = mjdFrac
	h.SamplingPeriod = time.Duration(dtS)*time.Second + time.Duration(dtNanosTenNs)*10*time.Nanosecond

	return nil
}

// FormatH2 renders the second header line.
func FormatH2(h Header) string {
	sowInt := h.WeekNanos / 1e9
	sowFracTenNs := (h.WeekNanos % 1e9) / 10

	dtS := uint64(h.SamplingPeriod / time.Second)
	dtNanosTenNs := uint64((h.SamplingPeriod % time.Second) / (10 * time.Nanosecond))

	return fmt.Sprintf(
		"##%5d%7d.%08d %5d.%08d%6d %s",
		h.Week, sowInt, sowFracTenNs, dtS, dtNanosTenNs, h.MJD, FormatMJDFraction(h.MJDFraction),
	)
}

// ParseDescriptorLine1 parses the first %c descriptor line, filling the
// constellation and timescale into h. The reader accepts any three-letter
// timescale abbreviation; unrecognized ones resolve to TAI.
func ParseDescriptorLine1(line string, h *Header) error {
	if len(line) < 12 || !strings.HasPrefix(line, "%c") {
		return MalformedDescriptor(line)
	}

	sys, ok := gnss.SystemByAbbr(line[3:4])
	if !ok {
		sys = gnss.SysMixed
	}
	h.Constellation = sys
	h.Timescale = ParseTimescaleAbbr(line[9:12])

	return nil
}

// FormatDescriptorLine1 renders the first %c descriptor line.
func FormatDescriptorLine1(h Header) string {
	return fmt.Sprintf(
		"%%c %s  cc %s ccc cccc cccc cccc cccc ccccc ccccc ccccc ccccc",
		h.Constellation.Abbr(), FormatTimescaleAbbr(h.Timescale),
	)
}

// descriptorLine2 is the fixed placeholder the writer emits for the second
// %c line; real content there is unsupported. Readers accept any content.
const descriptorLine2 = "%c cc cc ccc ccc cccc cccc cccc cccc ccccc ccccc ccccc ccccc"

// ParseDescriptorLine2 only checks that line is a %c descriptor; its
// content is not interpreted.
func ParseDescriptorLine2(line string) error {
	if !strings.HasPrefix(line, "%c") {
		return MalformedDescriptor(line)
	}
	return nil
}

// FormatDescriptorLine2 renders the fixed second %c line.
func FormatDescriptorLine2() string {
	return descriptorLine2
}

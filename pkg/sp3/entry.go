package sp3

import (
	"strconv"
	"strings"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

// clockAbsentSentinel is the literal clock-column value meaning "no
// clock solution for this entry".
const clockAbsentSentinel = "999999.999999"

// clockAbsentValue is clockAbsentSentinel's numeric form, written into
// the clock column whenever no clock value is present so that every P/V
// line keeps its full 60-byte data region regardless of which optional
// fields it carries.
const clockAbsentValue = 999999.999999

// Entry is the per-(SV, Epoch) payload of an SP3 record: a position
// vector that is always present, and optional velocity, clock offset and
// clock drift. A 999999.999999 clock value is a codec-boundary sentinel
// only — it is never stored; a real value is either present or the
// pointer is nil. PositionKm has no absent form: the decoder does not let
// an all-zero position overwrite an existing one, but an entry first
// created from such a line holds (0,0,0).
type Entry struct {
	PositionKm [3]float64

	VelocityKmS *[3]float64

	ClockUs      *float64
	ClockDriftNs *float64

	PredictedOrbit bool
	PredictedClock bool
	ClockEvent     bool
	Maneuver       bool
}

// NewEntry builds an Entry carrying only a true position.
func NewEntry(positionKm [3]float64) Entry {
	return Entry{PositionKm: positionKm}
}

// NewPredictedEntry builds an Entry carrying a predicted position.
func NewPredictedEntry(positionKm [3]float64) Entry {
	return Entry{PositionKm: positionKm, PredictedOrbit: true}
}

// NewEntryWithVelocity builds an Entry carrying a true position and velocity.
func NewEntryWithVelocity(positionKm, velocityKmS [3]float64) Entry {
	return Entry{PositionKm: positionKm, VelocityKmS: &velocityKmS}
}

// NewPredictedEntryWithVelocity builds an Entry carrying a predicted
// position and velocity.
func NewPredictedEntryWithVelocity(positionKm, velocityKmS [3]float64) Entry {
	return Entry{PositionKm: positionKm, VelocityKmS: &velocityKmS, PredictedOrbit: true}
}

// WithPosition returns a copy of e with a true position, clearing any
// orbit-prediction flag.
func (e Entry) WithPosition(positionKm [3]float64) Entry {
	e.PositionKm = positionKm
	e.PredictedOrbit = false
	return e
}

// WithPredictedPosition returns a copy of e with a predicted position.
func (e Entry) WithPredictedPosition(positionKm [3]float64) Entry {
	e.PositionKm = positionKm
	e.PredictedOrbit = true
	return e
}

// WithVelocity returns a copy of e carrying a true velocity.
func (e Entry) WithVelocity(velocityKmS [3]float64) Entry {
	e.VelocityKmS = &velocityKmS
	return e
}

// WithClockOffset returns a copy of e carrying a true clock offset.
func (e Entry) WithClockOffset(clockUs float64) Entry {
	e.ClockUs = &clockUs
	e.PredictedClock = false
	return e
}

// WithPredictedClockOffset returns a copy of e carrying a predicted
// clock offset.
func (e Entry) WithPredictedClockOffset(clockUs float64) Entry {
	e.ClockUs = &clockUs
	e.PredictedClock = true
	return e
}

// Sub returns the component-wise difference self-rhs: position is always
// defined, velocity/clock/drift are defined only where both sides define
// them. Flags are copied from the receiver.
func (e Entry) Sub(rhs Entry) Entry {
	out := Entry{
		PositionKm: [3]float64{
			e.PositionKm[0] - rhs.PositionKm[0],
			e.PositionKm[1] - rhs.PositionKm[1],
			e.PositionKm[2] - rhs.PositionKm[2],
		},
		PredictedOrbit: e.PredictedOrbit,
		PredictedClock: e.PredictedClock,
		ClockEvent:     e.ClockEvent,
		Maneuver:       e.Maneuver,
	}

	if e.VelocityKmS != nil && rhs.VelocityKmS != nil {
		v := [3]float64{
			e.VelocityKmS[0] - rhs.VelocityKmS[0],
			e.VelocityKmS[1] - rhs.VelocityKmS[1],
			e.VelocityKmS[2] - rhs.VelocityKmS[2],
		}
		out.VelocityKmS = &v
	}

	if e.ClockUs != nil && rhs.ClockUs != nil {
		v := *e.ClockUs - *rhs.ClockUs
		out.ClockUs = &v
	}

	if e.ClockDriftNs != nil && rhs.ClockDriftNs != nil {
		v := *e.ClockDriftNs - *rhs.ClockDriftNs
		out.ClockDriftNs = &v
	}

	return out
}

// SubAssign replaces e in place with the component-wise difference e-rhs,
// following the same optional-field rule as Sub.
func (e *Entry) SubAssign(rhs Entry) {
	*e = e.Sub(rhs)
}

// FormatPositionLine renders the P line for sv, per the SP3 entry
// grammar: three 14-character coordinate fields, a clock field (the
// 999999.999999 sentinel when absent), and the E/P/ /M/P flag columns.
// Only the flag columns are ever trimmed; the 60-byte data region
// always survives, so the line can always be read back.
func (e Entry) FormatPositionLine(sv gnss.SV) string {
	var b strings.Builder
	b.WriteByte('P')
	b.WriteString(sv.String())
	b.WriteString(FormatCoordinate(e.PositionKm[0]))
	b.WriteString(FormatCoordinate(e.PositionKm[1]))
	b.WriteString(FormatCoordinate(e.PositionKm[2]))

	if e.ClockUs != nil {
		b.WriteString(FormatCoordinate(*e.ClockUs))
	} else {
		b.WriteString(FormatCoordinate(clockAbsentValue))
	}
	b.WriteString(strings.Repeat(" ", 14)) // cols 61-74, unused

	if e.ClockEvent {
		b.WriteByte('E')
	} else {
		b.WriteByte(' ')
	}

	if e.PredictedClock {
		b.WriteString("P  ")
	} else {
		b.WriteString("   ")
	}

	if e.Maneuver {
		b.WriteByte('M')
	} else {
		b.WriteByte(' ')
	}

	if e.PredictedOrbit {
		b.WriteByte('P')
	}

	// The first 60 columns (SV, XYZ, clock) are always present; only the
	// optional flag columns beyond them are trimmed away.
	line := b.String()
	return line[:60] + strings.TrimRight(line[60:], " ")
}

// FormatVelocityLine renders the V line for sv. ok is false when no
// velocity is present, in which case the returned string is empty and
// the line must be omitted entirely.
func (e Entry) FormatVelocityLine(sv gnss.SV) (line string, ok bool) {
	if e.VelocityKmS == nil {
		return "", false
	}

	var b strings.Builder
	b.WriteByte('V')
	b.WriteString(sv.String())
	b.WriteString(FormatCoordinate(e.VelocityKmS[0] * 1.0e4))
	b.WriteString(FormatCoordinate(e.VelocityKmS[1] * 1.0e4))
	b.WriteString(FormatCoordinate(e.VelocityKmS[2] * 1.0e4))

	if e.ClockDriftNs != nil {
		b.WriteString(FormatCoordinate(*e.ClockDriftNs * 10.0))
	} else {
		b.WriteString(FormatCoordinate(clockAbsentValue))
	}

	// Columns 1-60 (SV and the three velocity/drift fields) are always
	// present; there are no further optional flag columns on a V line.
	return b.String(), true
}

// positionLineFields holds the raw parse of a P line prior to the
// sentinel/zero-vector interpretation the reader driver applies.
type positionLineFields struct {
	SV             gnss.SV
	XKm, YKm, ZKm  float64
	ClockUs        *float64
	ClockEvent     bool
	ClockPredicted bool
	Maneuver       bool
	OrbitPredicted bool
}

// ParsePositionLine parses a P data line. revisionA selects the SP3-a SV
// encoding (bare 2-digit GPS PRN, no system letter).
func ParsePositionLine(line string, revisionA bool) (positionLineFields, error) {
	var out positionLineFields
	var err error

	if len(line) < 60 {
		return out, ErrLineTooShort
	}

	if revisionA {
		out.SV, err = gnss.ParseSVGPSOnly(line[2:4])
	} else {
		out.SV, err = gnss.ParseSV(strings.TrimSpace(line[1:4]))
	}
	if err != nil {
		return out, &ParseNumericError{Field: "SV", Value: line[1:4], Err: err}
	}

	out.XKm, err = parseField(line[4:18], "x")
	if err != nil {
		return out, err
	}
	out.YKm, err = parseField(line[18:32], "y")
	if err != nil {
		return out, err
	}
	out.ZKm, err = parseField(line[32:46], "z")
	if err != nil {
		return out, err
	}

	if len(line) >= 60 && !strings.HasPrefix(strings.TrimSpace(line[46:60]), "999999.") {
		clk, err := parseField(line[46:60], "clock")
		if err != nil {
			return out, err
		}
		out.ClockUs = &clk
	}

	if len(line) > 74 && line[74:75] == "E" {
		out.ClockEvent = true
	}
	if len(line) > 75 && line[75:76] == "P" {
		out.ClockPredicted = true
	}
	if len(line) > 78 && line[78:79] == "M" {
		out.Maneuver = true
	}
	if len(line) > 79 && line[79:80] == "P" {
		out.OrbitPredicted = true
	}

	return out, nil
}

// velocityLineFields holds the raw parse of a V data line, still in the
// file's decimeter/second and tenths-of-nanosecond units.
type velocityLineFields struct {
	SV                   gnss.SV
	XDmS, YDmS, ZDmS     float64
	ClockDriftTenthsOfNs *float64
}

// ParseVelocityLine parses a V data line.
func ParseVelocityLine(line string, revisionA bool) (velocityLineFields, error) {
	var out velocityLineFields
	var err error

	if len(line) < 60 {
		return out, ErrLineTooShort
	}

	if revisionA {
		out.SV, err = gnss.ParseSVGPSOnly(line[2:4])
	} else {
		out.SV, err = gnss.ParseSV(strings.TrimSpace(line[1:4]))
	}
	if err != nil {
		return out, &ParseNumericError{Field: "SV", Value: line[1:4], Err: err}
	}

	out.XDmS, err = parseField(line[4:18], "velocity x")
	if err != nil {
		return out, err
	}
	out.YDmS, err = parseField(line[18:32], "velocity y")
	if err != nil {
		return out, err
	}
	out.ZDmS, err = parseField(line[32:46], "velocity z")
	if err != nil {
		return out, err
	}

	if len(line) >= 60 && !strings.HasPrefix(strings.TrimSpace(line[46:60]), "999999.") {
		drift, err := parseField(line[46:60], "clock drift")
		if err != nil {
			return out, err
		}
		out.ClockDriftTenthsOfNs = &drift
	}

	return out, nil
}

// VelocityKmS converts the raw decimeter/second triple into km/s.
func (v velocityLineFields) VelocityKmS() [3]float64 {
	return [3]float64{v.XDmS * 1.0e-4, v.YDmS * 1.0e-4, v.ZDmS * 1.0e-4}
}

// ClockDriftNs converts the raw tenths-of-nanosecond drift into ns, if present.
func (v velocityLineFields) ClockDriftNs() *float64 {
	if v.ClockDriftTenthsOfNs == nil {
		return nil
	}
	ns := *v.ClockDriftTenthsOfNs / 10.0
	return &ns
}

func parseField(raw, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseNumericError{Field: field, Value: raw, Err: err}
	}
	return v, nil
}

package sp3

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Scale is a GNSS/UTC timescale.
type Scale int

// Supported timescales.
const (
	GPST Scale = iota
	GST
	QZSST
	UTC
	TAI
)

func (s Scale) String() string {
	switch s {
	case GPST:
		return "GPST"
	case GST:
		return "GST"
	case QZSST:
		return "QZSST"
	case UTC:
		return "UTC"
	case TAI:
		return "TAI"
	default:
		return "UNKNOWN"
	}
}

// ParseTimescaleAbbr maps the 3-character abbreviation used on the SP3
// %c descriptor line ("GPS", "GAL", "GLO", "QZS", "BDS", "UTC", "TAI") to
// a Scale. Abbreviations with no dedicated Scale (GLO, BDS, and anything
// unrecognized) resolve to TAI, mirroring FormatTimescaleAbbr's inverse
// "otherwise TAI" rule.
func ParseTimescaleAbbr(abbr string) Scale {
	switch strings.TrimSpace(abbr) {
	case "GPS":
		return GPST
	case "GAL":
		return GST
	case "QZS":
		return QZSST
	case "UTC":
		return UTC
	default:
		return TAI
	}
}

// FormatTimescaleAbbr renders a Scale as the 3-character %c abbreviation.
func FormatTimescaleAbbr(s Scale) string {
	switch s {
	case GPST:
		return "GPS"
	case GST:
		return "GAL"
	case QZSST:
		return "QZS"
	case UTC:
		return "UTC"
	default:
		return "TAI"
	}
}

// leapInsertion is a historical UTC leap-second insertion: on or after
// this UTC instant, TAI-UTC equals offsetSeconds.
type leapInsertion struct {
	at            time.Time
	offsetSeconds int
}

// leapTable lists the TAI-UTC offset transitions. Only entries through
// the most recent (2017-01-01, still current at time of writing) are
// tracked; no further insertions have been scheduled by the IERS.
var leapTable = []leapInsertion{
	{time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), 19},
	{time.Date(1981, 7, 1, 0, 0, 0, 0, time.UTC), 20},
	{time.Date(1982, 7, 1, 0, 0, 0, 0, time.UTC), 21},
	{time.Date(1983, 7, 1, 0, 0, 0, 0, time.UTC), 22},
	{time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), 23},
	{time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC), 24},
	{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 25},
	{time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), 26},
	{time.Date(1992, 7, 1, 0, 0, 0, 0, time.UTC), 27},
	{time.Date(1993, 7, 1, 0, 0, 0, 0, time.UTC), 28},
	{time.Date(1994, 7, 1, 0, 0, 0, 0, time.UTC), 29},
	{time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC), 30},
	{time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC), 31},
	{time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 32},
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 33},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 34},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 35},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 36},
	{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 37},
}

// leapSeconds returns the TAI-UTC offset in effect at UTC instant t.
func leapSeconds(t time.Time) int {
	idx := sort.Search(len(leapTable), func(i int) bool {
		return leapTable[i].at.After(t)
	})
	if idx == 0 {
		return 0
	}
	return leapTable[idx-1].offsetSeconds
}

// gpstOffsetSeconds is the constant TAI-GPST offset: GPST was aligned
// with UTC (TAI-19s) at the 1980 GPS epoch and has not re-synced since.
const gpstOffsetSeconds = 19

// Epoch is an instant in a declared timescale, stored as a calendar
// instant with nanosecond resolution. Two Epochs in different scales are
// not directly comparable without a Convert; Epochs sharing the same
// Scale are totally ordered and their difference is a plain duration.
type Epoch struct {
	unixNanos int64
	scale     Scale
}

// NewEpoch builds an Epoch from calendar fields, interpreted as given in
// scale (no conversion is performed).
func NewEpoch(year int, month time.Month, day, hour, min, sec, nsec int, scale Scale) Epoch {
	t := time.Date(year, month, day, hour, min, sec, nsec, time.UTC)
	return Epoch{unixNanos: t.UnixNano(), scale: scale}
}

// Scale returns the Epoch's declared timescale.
func (e Epoch) Scale() Scale { return e.scale }

// Time returns the naive calendar instant, to be interpreted in Scale().
func (e Epoch) Time() time.Time { return time.Unix(0, e.unixNanos).UTC() }

// Sub returns the duration e-o. Meaningful only when both Epochs share a
// Scale (entries within one record always do).
func (e Epoch) Sub(o Epoch) time.Duration {
	return time.Duration(e.unixNanos - o.unixNanos)
}

// Add returns e shifted by d, keeping the same Scale.
func (e Epoch) Add(d time.Duration) Epoch {
	return Epoch{unixNanos: e.unixNanos + int64(d), scale: e.scale}
}

// Before reports whether e is chronologically before o (same Scale assumed).
func (e Epoch) Before(o Epoch) bool { return e.unixNanos < o.unixNanos }

// After reports whether e is chronologically after o (same Scale assumed).
func (e Epoch) After(o Epoch) bool { return e.unixNanos > o.unixNanos }

// Equal reports whether e and o denote the same instant in the same Scale.
func (e Epoch) Equal(o Epoch) bool { return e.unixNanos == o.unixNanos && e.scale == o.scale }

// Convert transposes e into the target timescale using a simple,
// built-in offset model: UTC<->TAI goes through the historical leap
// second table; GPST, GST and QZSST are all a constant 19s behind TAI.
func (e Epoch) Convert(to Scale) Epoch {
	if e.scale == to {
		return e
	}

	tai := e.Time().Add(toTAIOffset(e.scale, e.Time()))
	target := tai.Add(-toTAIOffset(to, tai))

	return Epoch{unixNanos: target.UnixNano(), scale: to}
}

// toTAIOffset returns the duration to add to a naive instant declared in
// scale to reach TAI. ref is used as the leap-second lookup instant for
// UTC (an approximation: the lookup should be performed against true UTC,
// but for the purpose of simple transposition the naive instant is close
// enough that it never straddles a leap boundary in the same call).
func toTAIOffset(scale Scale, ref time.Time) time.Duration {
	switch scale {
	case UTC:
		return time.Duration(leapSeconds(ref)) * time.Second
	case GPST, GST, QZSST:
		return gpstOffsetSeconds * time.Second
	default: // TAI
		return 0
	}
}

// String renders the Epoch as an ISO-8601-like timestamp with 8
// fractional digits, suffixed by its Scale, e.g.
// "2020-12-24T21:43:54.12345678 GPST".
func (e Epoch) String() string {
	t := e.Time()
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%08d %s",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/10, e.scale)
}

// ParseEpochMarker parses the "*  YYYY mm dd hh mm ss.ffffffff" epoch
// marker body (content with the leading "*  " already stripped) in the
// given timescale.
func ParseEpochMarker(content string, scale Scale) (Epoch, error) {
	fields := strings.Fields(content)
	if len(fields) < 6 {
		return Epoch{}, &ParseEpochError{Value: content}
	}

	y, err1 := strconv.Atoi(fields[0])
	mo, err2 := strconv.Atoi(fields[1])
	d, err3 := strconv.Atoi(fields[2])
	hh, err4 := strconv.Atoi(fields[3])
	mm, err5 := strconv.Atoi(fields[4])
	secFloat, err6 := strconv.ParseFloat(fields[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return Epoch{}, &ParseEpochError{Value: content}
	}

	sec := int(secFloat)
	nsec := int((secFloat - float64(sec)) * 1e9)

	return NewEpoch(y, time.Month(mo), d, hh, mm, sec, nsec, scale), nil
}

// FormatEpochMarker renders e as the "*  YYYY mm dd hh mm ss.ffffffff"
// marker line (without a trailing newline).
func FormatEpochMarker(e Epoch) string {
	t := e.Time()
	secFrac := float64(t.Second()) + float64(t.Nanosecond())/1e9
	return fmt.Sprintf("*  %04d %2d %2d %2d %2d %11.8f",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), secFrac)
}

// gpsEpochStart is the origin of GPS week numbering, 1980-01-06T00:00:00.
var gpsEpochStart = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

// gpsWeekAndNanos derives the GPS week number and nanoseconds-since-start-
// of-week for e's own calendar instant (no scale conversion is applied;
// callers transposing a header's reference epoch convert first).
func gpsWeekAndNanos(e Epoch) (week uint32, weekNanos uint64) {
	elapsed := e.Time().Sub(gpsEpochStart)
	const weekDuration = 7 * 24 * time.Hour
	weeks := elapsed / weekDuration
	remainder := elapsed % weekDuration
	return uint32(weeks), uint64(remainder)
}

// mjdEpochStart is the Unix-time origin's Modified Julian Date.
const mjdEpochStart = 40587.0

// modifiedJulianDate derives the Modified Julian Date, split into its
// integer day and fractional-day parts, for e's own calendar instant.
func modifiedJulianDate(e Epoch) (day uint32, fraction float64) {
	daysSinceUnixEpoch := float64(e.unixNanos) / float64(24*time.Hour)
	mjd := mjdEpochStart + daysSinceUnixEpoch
	whole := math.Floor(mjd)
	return uint32(whole), mjd - whole
}

// parseH1Date parses the H1 header's date/time fields, always
// interpreted as UTC regardless of the file's declared data timescale
// (the header timestamp records file creation, not a data epoch).
func parseH1Date(y, m, d, hh, mm, ss, nanos int) Epoch {
	return NewEpoch(y, time.Month(m), d, hh, mm, ss, nanos*10, UTC)
}

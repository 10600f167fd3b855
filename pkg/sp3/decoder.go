package sp3

import (
	"bufio"
	"io"
	"log"
	"slices"
	"strings"
)

// Decoder reads and decodes an SP3 record from a stream, following the
// fixed header grammar (H1, H2, two %c descriptor lines) and a tolerant
// body loop that classifies each line by its leading bytes.
type Decoder struct {
	sc      *bufio.Scanner
	lineNum int
}

// NewDecoder returns a Decoder reading from r. The header and body are
// not read until Decode is called.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{sc: bufio.NewScanner(r)}
}

// Decode reads one full record: header, comments and body. If the header
// is malformed the error is returned immediately with a nil Record. If a
// fatal error occurs in the body, Decode returns the Record populated
// with everything parsed before the failure, together with the error; it
// never partially commits to a Store the caller already owns, since the
// Store returned is always the one built during this call.
func (d *Decoder) Decode() (*Record, error) {
	header, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	rec := NewRecord(header)

	if err := d.readBody(rec); err != nil {
		rec.Header.Satellites = slices.Collect(rec.Store.Satellites())
		return rec, err
	}

	rec.Header.Satellites = slices.Collect(rec.Store.Satellites())
	return rec, nil
}

func (d *Decoder) readHeader() (Header, error) {
	if !d.readLine() {
		return Header{}, MalformedH1("")
	}
	header, err := ParseH1(d.line())
	if err != nil {
		return Header{}, err
	}

	if !d.readLine() {
		return Header{}, MalformedH2("")
	}
	if err := ParseH2(d.line(), &header); err != nil {
		return Header{}, err
	}

	if !d.readLine() {
		return Header{}, MalformedDescriptor("")
	}
	if err := ParseDescriptorLine1(d.line(), &header); err != nil {
		return Header{}, err
	}

	if !d.readLine() {
		return Header{}, MalformedDescriptor("")
	}
	if err := ParseDescriptorLine2(d.line()); err != nil {
		return Header{}, err
	}

	return header, nil
}

// readBody runs the Start->Body state machine over comments, epoch
// markers and P/V data lines, populating rec.Store. Lines that match
// none of the recognized prefixes are skipped with a log line; EOF
// terminates the loop successfully.
func (d *Decoder) readBody(rec *Record) error {
	revisionA := rec.Header.Version == VersionA
	var currentEpoch Epoch
	haveEpoch := false

	for d.readLine() {
		line := d.line()

		switch {
		case line == "EOF":
			return nil

		case strings.HasPrefix(line, "/* "):
			rec.Comments = append(rec.Comments, line[3:])

		case strings.HasPrefix(line, "*"):
			epoch, err := ParseEpochMarker(strings.TrimPrefix(line, "*"), rec.Header.Timescale)
			if err != nil {
				return err
			}
			currentEpoch = epoch
			haveEpoch = true

		case strings.HasPrefix(line, "P"):
			if !haveEpoch {
				log.Printf("sp3: P line before any epoch marker, skipped: %q", line)
				continue
			}
			if len(line) < 60 {
				log.Printf("sp3: P line shorter than the data region, skipped: %q", line)
				continue
			}
			if err := d.applyPositionLine(rec, line, currentEpoch, revisionA); err != nil {
				return err
			}

		case strings.HasPrefix(line, "V"):
			if !haveEpoch {
				log.Printf("sp3: V line before any epoch marker, skipped: %q", line)
				continue
			}
			if len(line) < 60 {
				log.Printf("sp3: V line shorter than the data region, skipped: %q", line)
				continue
			}
			if err := d.applyVelocityLine(rec, line, currentEpoch, revisionA); err != nil {
				return err
			}

		default:
			log.Printf("sp3: unrecognized body line skipped: %q", line)
		}
	}

	return nil
}

func (d *Decoder) applyPositionLine(rec *Record, line string, epoch Epoch, revisionA bool) error {
	f, err := ParsePositionLine(line, revisionA)
	if err != nil {
		return err
	}

	entry, _ := rec.Store.Get(f.SV, epoch)
	if f.XKm != 0 || f.YKm != 0 || f.ZKm != 0 {
		entry.PositionKm = [3]float64{f.XKm, f.YKm, f.ZKm}
	}
	entry.ClockUs = f.ClockUs
	entry.ClockEvent = f.ClockEvent
	entry.PredictedClock = f.ClockPredicted
	entry.Maneuver = f.Maneuver
	entry.PredictedOrbit = f.OrbitPredicted

	rec.Store.Insert(f.SV, epoch, entry)
	return nil
}

func (d *Decoder) applyVelocityLine(rec *Record, line string, epoch Epoch, revisionA bool) error {
	f, err := ParseVelocityLine(line, revisionA)
	if err != nil {
		return err
	}

	entry, _ := rec.Store.Get(f.SV, epoch)
	v := f.VelocityKmS()
	entry.VelocityKmS = &v
	entry.ClockDriftNs = f.ClockDriftNs()

	rec.Store.Insert(f.SV, epoch, entry)
	return nil
}

func (d *Decoder) readLine() bool {
	if ok := d.sc.Scan(); !ok {
		return false
	}
	d.lineNum++
	return true
}

func (d *Decoder) line() string { return d.sc.Text() }

package sp3

import (
	"bufio"
	"fmt"
	"io"
)

// Encoder writes an SP3 record to a stream in the strict emission order:
// H1, H2, two %c lines, comments, then one block per epoch in ascending
// order, followed by EOF.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes rec and flushes the underlying writer.
func (e *Encoder) Encode(rec *Record) error {
	if err := e.writeHeader(rec); err != nil {
		return &FormatError{Err: err}
	}
	if err := e.writeBody(rec); err != nil {
		return &FormatError{Err: err}
	}
	return e.w.Flush()
}

func (e *Encoder) writeHeader(rec *Record) error {
	lines := []string{
		FormatH1(rec.Header),
		FormatH2(rec.Header),
		FormatDescriptorLine1(rec.Header),
		FormatDescriptorLine2(),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(e.w, line); err != nil {
			return err
		}
	}

	for _, c := range rec.Comments {
		if _, err := fmt.Fprintf(e.w, "/* %s\n", c); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) writeBody(rec *Record) error {
	for epoch := range rec.Store.Epochs() {
		if _, err := fmt.Fprintln(e.w, FormatEpochMarker(epoch)); err != nil {
			return err
		}

		for sv := range rec.Store.Satellites() {
			entry, ok := rec.Store.Get(sv, epoch)
			if !ok {
				continue
			}

			if _, err := fmt.Fprintln(e.w, entry.FormatPositionLine(sv)); err != nil {
				return err
			}

			if line, ok := entry.FormatVelocityLine(sv); ok {
				if _, err := fmt.Fprintln(e.w, line); err != nil {
					return err
				}
			}
		}
	}

	_, err := fmt.Fprintln(e.w, "EOF")
	return err
}

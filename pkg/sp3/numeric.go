package sp3

import "fmt"

// FormatCoordinate renders v in the 14-character, 6-fractional-digit field
// used for position, velocity, clock and clock-drift columns. Positive
// values are left-padded with spaces so the sign column lines up with
// negative values; callers are responsible for keeping v within the
// domain the field can hold (|v| well below 1e7) — the formatter does not
// grow the field to accommodate an oversized value.
func FormatCoordinate(v float64) string {
	return fmt.Sprintf("%14.6f", v)
}

// FormatMJDFraction renders v in the 15-character, 13-fractional-digit,
// always-unsigned field used for the header's MJD fraction.
func FormatMJDFraction(v float64) string {
	return fmt.Sprintf("%15.13f", v)
}

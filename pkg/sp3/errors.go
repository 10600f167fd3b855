package sp3

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra detail.
var (
	// ErrNonSupportedRevision is returned for an SP3 version letter
	// outside a|b|c|d.
	ErrNonSupportedRevision = errors.New("sp3: non supported revision")

	// ErrUnknownDataType is returned for an H1 data-type letter other
	// than P or V.
	ErrUnknownDataType = errors.New("sp3: unknown data type")

	// ErrUnknownOrbitType is returned for an orbit-type field outside
	// FIT, EXT, BCT, BHN, HLM.
	ErrUnknownOrbitType = errors.New("sp3: unknown orbit type")

	// ErrInvalidFilename is returned when a filename does not match the
	// standardized long-filename grammar.
	ErrInvalidFilename = errors.New("sp3: invalid filename")

	// ErrInvalidFileAvailability is returned for an unrecognized
	// availability code in a filename.
	ErrInvalidFileAvailability = errors.New("sp3: invalid file availability")

	// ErrInvalidCampaignName is returned for an unrecognized campaign
	// code in a filename.
	ErrInvalidCampaignName = errors.New("sp3: invalid campaign name")

	// ErrDynamicsUnresolved names a prediction requested on a record whose
	// satellites carry no resolved velocity. PredictMut does not return
	// it: satellites without a velocity are skipped.
	ErrDynamicsUnresolved = errors.New("sp3: dynamics unresolved, velocity required")

	// ErrUndeterminedInitialState is returned by PredictMut when the record
	// holds no epoch at all to seed a prediction from.
	ErrUndeterminedInitialState = errors.New("sp3: undetermined initial state")

	// ErrEvenInterpolationOrder signals a programmer error: the Lagrange
	// interpolator only accepts odd orders.
	ErrEvenInterpolationOrder = errors.New("sp3: interpolation order must be odd")

	// ErrLineTooShort is returned when a P or V data line ends before the
	// fixed 60-byte coordinate/clock region is complete.
	ErrLineTooShort = errors.New("sp3: data line shorter than the data region")
)

// ParseStructureError reports a malformed header line: wrong length or
// missing expected prefix. An unsupported revision is reported as
// ErrNonSupportedRevision instead.
type ParseStructureError struct {
	Line   string
	Reason string
}

func (e *ParseStructureError) Error() string {
	return fmt.Sprintf("sp3: malformed %s: %q", e.Reason, e.Line)
}

// MalformedH1 builds the ParseStructureError for a malformed H1 line.
func MalformedH1(line string) error {
	return &ParseStructureError{Line: line, Reason: "header line 1"}
}

// MalformedH2 builds the ParseStructureError for a malformed H2 line.
func MalformedH2(line string) error {
	return &ParseStructureError{Line: line, Reason: "header line 2"}
}

// MalformedDescriptor builds the ParseStructureError for a malformed %c
// descriptor line.
func MalformedDescriptor(line string) error {
	return &ParseStructureError{Line: line, Reason: "%c descriptor"}
}

// ParseNumericError reports a field that could not be interpreted as the
// required numeric or enum value.
type ParseNumericError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseNumericError) Error() string {
	return fmt.Sprintf("sp3: parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseNumericError) Unwrap() error { return e.Err }

// ParseEpochError reports an invalid epoch marker or header datetime.
type ParseEpochError struct {
	Value string
}

func (e *ParseEpochError) Error() string {
	return fmt.Sprintf("sp3: invalid epoch %q", e.Value)
}

// FormatError reports that the writer could not emit a record.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return fmt.Sprintf("sp3: format: %v", e.Err) }
func (e *FormatError) Unwrap() error  { return e.Err }

// MergeConflict reports that two records cannot be combined safely
// because their headers disagree on a field that must match.
type MergeConflict struct {
	Field    string
	Lhs, Rhs string
}

func (e *MergeConflict) Error() string {
	return fmt.Sprintf("sp3: merge conflict on %s: %q vs %q", e.Field, e.Lhs, e.Rhs)
}

// NoCorrectionAvailable reports that a precise-correction database has no
// polynomial applicable to the requested (source, target) scale pair.
type NoCorrectionAvailable struct {
	Source, Target Scale
}

func (e *NoCorrectionAvailable) Error() string {
	return fmt.Sprintf("sp3: no correction available from %s to %s", e.Source, e.Target)
}

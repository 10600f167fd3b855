// Package sp3 implements the IGS Standard Product 3 orbit and clock file
// format: parsing, formatting, the in-memory record store, dynamics
// reconstruction, interpolation, set algebra and timescale transposition.
package sp3

import "github.com/gnss-tools/sp3/pkg/gnss"

// Record is the full in-memory representation of one SP3 file: one
// header, the header comments, an optional derived production-attributes
// value (present when the record was read from or is destined for a
// standardized long filename), and the (SV, Epoch) -> Entry store.
type Record struct {
	Header     Header
	Comments   []string
	Production *ProductionAttributes
	Store      *Store
}

// NewRecord returns an empty Record with an initialized, empty Store.
func NewRecord(header Header) *Record {
	return &Record{Header: header, Store: NewStore()}
}

// Clone returns a deep copy of rec; mutating the clone never affects rec.
func (rec *Record) Clone() *Record {
	clone := &Record{
		Header:   rec.Header,
		Comments: append([]string(nil), rec.Comments...),
		Store:    rec.Store.Clone(),
	}
	clone.Header.Satellites = append([]gnss.SV(nil), rec.Header.Satellites...)
	clone.Header.Labels = append([]string(nil), rec.Header.Labels...)

	if rec.Production != nil {
		production := *rec.Production
		clone.Production = &production
	}

	return clone
}

package sp3

import (
	"sort"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

// Split partitions rec into a "keep" share holding every epoch ≤ t and a
// "rest" share holding every epoch after t. Both shares carry the full
// header and comments.
func Split(rec *Record, t Epoch) (keep, rest *Record) {
	keep = rec.Clone()
	rest = rec.Clone()
	keep.Store = NewStore()
	rest.Store = NewStore()

	for p := range rec.Store.Positions() {
		dst := rest
		if !p.Epoch.After(t) {
			dst = keep
		}
		entry, _ := rec.Store.Get(p.SV, p.Epoch)
		dst.Store.Insert(p.SV, p.Epoch, entry)
	}

	keep.Header.Satellites = collectSatellites(keep.Store)
	rest.Header.Satellites = collectSatellites(rest.Store)

	return keep, rest
}

// SubtractMut replaces every entry of rec that has a matching (SV, Epoch)
// key in rhs with the component-wise difference rec-rhs, in place. Keys
// present only in rec are dropped.
func SubtractMut(rec *Record, rhs *Record) {
	result := NewStore()
	for p := range rec.Store.Positions() {
		lhsEntry, _ := rec.Store.Get(p.SV, p.Epoch)
		rhsEntry, ok := rhs.Store.Get(p.SV, p.Epoch)
		if !ok {
			continue
		}
		result.Insert(p.SV, p.Epoch, lhsEntry.Sub(rhsEntry))
	}
	rec.Store = result
	rec.Header.Satellites = collectSatellites(result)
}

// Subtract clones rec and applies SubtractMut to the clone, leaving rec
// and rhs untouched.
func Subtract(rec *Record, rhs *Record) *Record {
	clone := rec.Clone()
	SubtractMut(clone, rhs)
	return clone
}

// Merge combines lhs and rhs into a new record: the header upgrades the
// constellation to Mixed if they differ, keeps the earlier version, the
// wider sampling period, the earlier (week, MJD), and the union of
// satellites. Entries present in both carry the rhs-provided optional
// fields on conflict. Fails when agencies, timescales, or coordinate
// systems disagree.
func Merge(lhs, rhs *Record) (*Record, error) {
	if lhs.Header.Agency != rhs.Header.Agency {
		return nil, &MergeConflict{Field: "agency", Lhs: lhs.Header.Agency, Rhs: rhs.Header.Agency}
	}
	if lhs.Header.Timescale != rhs.Header.Timescale {
		return nil, &MergeConflict{Field: "timescale", Lhs: lhs.Header.Timescale.String(), Rhs: rhs.Header.Timescale.String()}
	}
	if lhs.Header.CoordSystem != rhs.Header.CoordSystem {
		return nil, &MergeConflict{Field: "coord_system", Lhs: lhs.Header.CoordSystem, Rhs: rhs.Header.CoordSystem}
	}

	merged := lhs.Clone()

	if lhs.Header.Constellation != rhs.Header.Constellation {
		merged.Header.Constellation = gnss.SysMixed
	}
	if rhs.Header.Version < lhs.Header.Version {
		merged.Header.Version = rhs.Header.Version
	}
	if rhs.Header.SamplingPeriod > lhs.Header.SamplingPeriod {
		merged.Header.SamplingPeriod = rhs.Header.SamplingPeriod
	}
	if earlierReferenceEpoch(rhs.Header, lhs.Header) {
		merged.Header.Week = rhs.Header.Week
		merged.Header.WeekNanos = rhs.Header.WeekNanos
		merged.Header.MJD = rhs.Header.MJD
		merged.Header.MJDFraction = rhs.Header.MJDFraction
	}

	for p := range rhs.Store.Positions() {
		entry, _ := rhs.Store.Get(p.SV, p.Epoch)
		if existing, ok := merged.Store.Get(p.SV, p.Epoch); ok {
			merged.Store.Insert(p.SV, p.Epoch, mergeEntries(existing, entry))
			continue
		}
		merged.Store.Insert(p.SV, p.Epoch, entry)
	}

	merged.Header.Satellites = collectSatellites(merged.Store)
	return merged, nil
}

// mergeEntries combines two entries for the same (SV, Epoch), preferring
// rhs's optional fields whenever rhs provides them.
func mergeEntries(lhs, rhs Entry) Entry {
	out := lhs
	if rhs.VelocityKmS != nil {
		out.VelocityKmS = rhs.VelocityKmS
	}
	if rhs.ClockUs != nil {
		out.ClockUs = rhs.ClockUs
	}
	if rhs.ClockDriftNs != nil {
		out.ClockDriftNs = rhs.ClockDriftNs
	}
	return out
}

// earlierReferenceEpoch reports whether a's release epoch precedes b's.
func earlierReferenceEpoch(a, b Header) bool {
	return a.ReleaseEpoch.Before(b.ReleaseEpoch)
}

func collectSatellites(s *Store) []gnss.SV {
	var out []gnss.SV
	for sv := range s.Satellites() {
		out = append(out, sv)
	}
	sort.Sort(gnss.BySV(out))
	return out
}

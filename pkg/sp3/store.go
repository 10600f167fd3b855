package sp3

import (
	"iter"
	"slices"
	"sort"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

// storeKey is the (SV, Epoch) identity of one Entry.
type storeKey struct {
	sv    gnss.SV
	epoch Epoch
}

// Store is the ordered (SV, Epoch) -> Entry map backing a Record. It owns
// its entries; every iterator below borrows them rather than copying the
// store. Mutation methods are not goroutine-safe.
type Store struct {
	entries map[storeKey]Entry

	// epochs and satellites are kept sorted so that every iterator can
	// walk them directly instead of sorting map keys on every call.
	epochs     []Epoch
	satellites []gnss.SV
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[storeKey]Entry)}
}

// Insert stores (or replaces) the entry for (sv, epoch), keeping the
// internal epoch and satellite indexes sorted.
func (s *Store) Insert(sv gnss.SV, epoch Epoch, e Entry) {
	key := storeKey{sv: sv, epoch: epoch}
	if _, exists := s.entries[key]; !exists {
		s.insertEpoch(epoch)
		s.insertSatellite(sv)
	}
	s.entries[key] = e
}

// Remove deletes the entry at (sv, epoch), if any. It does not prune sv or
// epoch from the index if other entries still reference them.
func (s *Store) Remove(sv gnss.SV, epoch Epoch) {
	delete(s.entries, storeKey{sv: sv, epoch: epoch})

	epochUsed, svUsed := false, false
	for k := range s.entries {
		epochUsed = epochUsed || k.epoch == epoch
		svUsed = svUsed || k.sv == sv
	}
	if !epochUsed {
		s.epochs = slices.DeleteFunc(s.epochs, func(e Epoch) bool { return e == epoch })
	}
	if !svUsed {
		s.satellites = slices.DeleteFunc(s.satellites, func(o gnss.SV) bool { return o == sv })
	}
}

// Get looks up the entry at (sv, epoch).
func (s *Store) Get(sv gnss.SV, epoch Epoch) (Entry, bool) {
	e, ok := s.entries[storeKey{sv: sv, epoch: epoch}]
	return e, ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.entries) }

// Clone returns a deep copy of s; mutating the clone never affects s.
func (s *Store) Clone() *Store {
	clone := &Store{
		entries:    make(map[storeKey]Entry, len(s.entries)),
		epochs:     append([]Epoch(nil), s.epochs...),
		satellites: append([]gnss.SV(nil), s.satellites...),
	}
	for k, v := range s.entries {
		clone.entries[k] = v
	}
	return clone
}

func (s *Store) insertEpoch(e Epoch) {
	i := sort.Search(len(s.epochs), func(i int) bool { return !s.epochs[i].Before(e) })
	if i < len(s.epochs) && s.epochs[i].Equal(e) {
		return
	}
	s.epochs = append(s.epochs, Epoch{})
	copy(s.epochs[i+1:], s.epochs[i:])
	s.epochs[i] = e
}

func (s *Store) insertSatellite(sv gnss.SV) {
	i := sort.Search(len(s.satellites), func(i int) bool { return !s.satellites[i].Less(sv) })
	if i < len(s.satellites) && s.satellites[i] == sv {
		return
	}
	s.satellites = append(s.satellites, gnss.SV{})
	copy(s.satellites[i+1:], s.satellites[i:])
	s.satellites[i] = sv
}

// Epochs returns the unique, ascending-ordered epochs carrying at least
// one entry.
func (s *Store) Epochs() iter.Seq[Epoch] {
	return func(yield func(Epoch) bool) {
		for _, e := range s.epochs {
			if !yield(e) {
				return
			}
		}
	}
}

// EpochsBetween restricts Epochs to the closed range [from, to].
func (s *Store) EpochsBetween(from, to Epoch) iter.Seq[Epoch] {
	return func(yield func(Epoch) bool) {
		for _, e := range s.epochs {
			if e.Before(from) || e.After(to) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Satellites returns the unique, ordered satellites carrying at least one
// entry.
func (s *Store) Satellites() iter.Seq[gnss.SV] {
	return func(yield func(gnss.SV) bool) {
		for _, sv := range s.satellites {
			if !yield(sv) {
				return
			}
		}
	}
}

// PositionSample is one yielded item of Positions and its filtered
// siblings.
type PositionSample struct {
	Epoch      Epoch
	SV         gnss.SV
	Predicted  bool
	Maneuver   bool
	PositionKm [3]float64
}

// Positions iterates every stored entry in (epoch, then SV) order.
func (s *Store) Positions() iter.Seq[PositionSample] {
	return func(yield func(PositionSample) bool) {
		for _, e := range s.epochs {
			for _, sv := range s.satellites {
				entry, ok := s.entries[storeKey{sv: sv, epoch: e}]
				if !ok {
					continue
				}
				sample := PositionSample{
					Epoch:      e,
					SV:         sv,
					Predicted:  entry.PredictedOrbit,
					Maneuver:   entry.Maneuver,
					PositionKm: entry.PositionKm,
				}
				if !yield(sample) {
					return
				}
			}
		}
	}
}

// StablePositions is Positions with maneuver entries dropped.
func (s *Store) StablePositions() iter.Seq[PositionSample] {
	return filterPositions(s.Positions(), func(p PositionSample) bool { return !p.Maneuver })
}

// FittedPositions is StablePositions restricted to non-predicted orbits.
func (s *Store) FittedPositions() iter.Seq[PositionSample] {
	return filterPositions(s.StablePositions(), func(p PositionSample) bool { return !p.Predicted })
}

// PredictedPositions is StablePositions restricted to predicted orbits.
func (s *Store) PredictedPositions() iter.Seq[PositionSample] {
	return filterPositions(s.StablePositions(), func(p PositionSample) bool { return p.Predicted })
}

func filterPositions(src iter.Seq[PositionSample], keep func(PositionSample) bool) iter.Seq[PositionSample] {
	return func(yield func(PositionSample) bool) {
		for p := range src {
			if !keep(p) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// VelocitySample is one yielded item of Velocities.
type VelocitySample struct {
	Epoch       Epoch
	SV          gnss.SV
	VelocityKmS [3]float64
}

// Velocities yields entries carrying a velocity and no maneuver flag.
func (s *Store) Velocities() iter.Seq[VelocitySample] {
	return func(yield func(VelocitySample) bool) {
		for _, e := range s.epochs {
			for _, sv := range s.satellites {
				entry, ok := s.entries[storeKey{sv: sv, epoch: e}]
				if !ok || entry.VelocityKmS == nil || entry.Maneuver {
					continue
				}
				sample := VelocitySample{Epoch: e, SV: sv, VelocityKmS: *entry.VelocityKmS}
				if !yield(sample) {
					return
				}
			}
		}
	}
}

// ClockOffsetSample is one yielded item of ClockOffsetSeconds.
type ClockOffsetSample struct {
	Epoch   Epoch
	SV      gnss.SV
	Seconds float64
}

// ClockOffsetSeconds yields every present clock offset rescaled from
// microseconds to seconds.
func (s *Store) ClockOffsetSeconds() iter.Seq[ClockOffsetSample] {
	return func(yield func(ClockOffsetSample) bool) {
		for _, e := range s.epochs {
			for _, sv := range s.satellites {
				entry, ok := s.entries[storeKey{sv: sv, epoch: e}]
				if !ok || entry.ClockUs == nil {
					continue
				}
				sample := ClockOffsetSample{Epoch: e, SV: sv, Seconds: *entry.ClockUs * 1e-6}
				if !yield(sample) {
					return
				}
			}
		}
	}
}

// ClockDriftSample is one yielded item of ClockDriftSecondsPerSecond.
type ClockDriftSample struct {
	Epoch            Epoch
	SV               gnss.SV
	SecondsPerSecond float64
}

// ClockDriftSecondsPerSecond yields every present clock drift rescaled
// from nanoseconds to a dimensionless seconds-per-second rate.
func (s *Store) ClockDriftSecondsPerSecond() iter.Seq[ClockDriftSample] {
	return func(yield func(ClockDriftSample) bool) {
		for _, e := range s.epochs {
			for _, sv := range s.satellites {
				entry, ok := s.entries[storeKey{sv: sv, epoch: e}]
				if !ok || entry.ClockDriftNs == nil {
					continue
				}
				sample := ClockDriftSample{Epoch: e, SV: sv, SecondsPerSecond: *entry.ClockDriftNs * 1e-9}
				if !yield(sample) {
					return
				}
			}
		}
	}
}

// EpochSV is one yielded item of Events and Maneuvers.
type EpochSV struct {
	Epoch Epoch
	SV    gnss.SV
}

// Events yields (Epoch, SV) pairs where the clock-event flag is set.
func (s *Store) Events() iter.Seq[EpochSV] {
	return s.flagged(func(e Entry) bool { return e.ClockEvent })
}

// Maneuvers yields (Epoch, SV) pairs where the maneuver flag is set.
func (s *Store) Maneuvers() iter.Seq[EpochSV] {
	return s.flagged(func(e Entry) bool { return e.Maneuver })
}

func (s *Store) flagged(match func(Entry) bool) iter.Seq[EpochSV] {
	return func(yield func(EpochSV) bool) {
		for _, e := range s.epochs {
			for _, sv := range s.satellites {
				entry, ok := s.entries[storeKey{sv: sv, epoch: e}]
				if !ok || !match(entry) {
					continue
				}
				if !yield(EpochSV{Epoch: e, SV: sv}) {
					return
				}
			}
		}
	}
}

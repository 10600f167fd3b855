package sp3

import (
	"time"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

// CartesianState is a satellite's instantaneous 6-vector state.
type CartesianState struct {
	PositionKm  [3]float64
	VelocityKmS [3]float64
}

// Trajectory exposes a propagated satellite state at an arbitrary epoch
// within the interval the Propagator was asked to cover.
type Trajectory interface {
	At(epoch Epoch) (CartesianState, error)
}

// Propagator builds a Trajectory for one satellite's initial state,
// integrated forward (or backward, for a negative until) to untilEpoch.
// The core never integrates equations of motion itself; this is the seam
// a caller plugs a real orbit integrator into.
type Propagator interface {
	Propagate(initial CartesianState, dynamics DynamicsConfig, untilEpoch Epoch) (Trajectory, error)
}

// DynamicsConfig is opaque configuration forwarded to the Propagator
// unexamined by the core.
type DynamicsConfig any

// PredictMut samples a trajectory for every satellite in rec whose last
// entry carries a resolved velocity, across [rec's last epoch, until],
// at rec's sampling period, and inserts the sampled states as entries
// marked PredictedOrbit. Satellites with unresolved dynamics are silently
// skipped. The header's epoch count is updated to reflect the new total.
func PredictMut(rec *Record, propagator Propagator, dynamics DynamicsConfig, until Epoch) error {
	if rec.Header.SamplingPeriod == 0 {
		return nil
	}

	lastEpoch, ok := lastEpochOf(rec.Store)
	if !ok {
		return ErrUndeterminedInitialState
	}

	for sv := range rec.Store.Satellites() {
		seed, ok := rec.Store.Get(sv, lastEpoch)
		if !ok || seed.VelocityKmS == nil {
			continue
		}

		initial := CartesianState{PositionKm: seed.PositionKm, VelocityKmS: *seed.VelocityKmS}
		trajectory, err := propagator.Propagate(initial, dynamics, until)
		if err != nil {
			return err
		}

		if err := samplePredictions(rec, sv, trajectory, lastEpoch, until); err != nil {
			return err
		}
	}

	rec.Header.NumEpochs = uint64(countDistinctEpochs(rec.Store))
	return nil
}

func samplePredictions(rec *Record, sv gnss.SV, trajectory Trajectory, from, until Epoch) error {
	step := rec.Header.SamplingPeriod
	if until.Before(from) {
		step = -step
	}

	for t := from.Add(step); stepsToward(t, until, step); t = t.Add(step) {
		state, err := trajectory.At(t)
		if err != nil {
			return err
		}
		entry := NewPredictedEntryWithVelocity(state.PositionKm, state.VelocityKmS)
		rec.Store.Insert(sv, t, entry)
	}

	return nil
}

// stepsToward reports whether t has not yet passed until when walking in
// the direction of step.
func stepsToward(t, until Epoch, step time.Duration) bool {
	if step > 0 {
		return !t.After(until)
	}
	return !t.Before(until)
}

func lastEpochOf(s *Store) (Epoch, bool) {
	var last Epoch
	found := false
	for e := range s.Epochs() {
		last = e
		found = true
	}
	return last, found
}

func countDistinctEpochs(s *Store) int {
	n := 0
	for range s.Epochs() {
		n++
	}
	return n
}

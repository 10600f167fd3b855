package sp3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearTrajectory extrapolates position as a straight line from a fixed
// origin epoch and constant velocity, exercising the Trajectory seam
// without any real orbital mechanics.
type linearTrajectory struct {
	origin Epoch
	state  CartesianState
}

func (lt linearTrajectory) At(epoch Epoch) (CartesianState, error) {
	dt := epoch.Sub(lt.origin).Seconds()
	var pos [3]float64
	for i := range pos {
		pos[i] = lt.state.PositionKm[i] + lt.state.VelocityKmS[i]*dt
	}
	return CartesianState{PositionKm: pos, VelocityKmS: lt.state.VelocityKmS}, nil
}

// predictTestPropagator closes over the epoch the caller is propagating
// from, since the Propagator interface alone does not carry it.
type predictTestPropagator struct {
	from Epoch
}

func (p predictTestPropagator) Propagate(initial CartesianState, dynamics DynamicsConfig, until Epoch) (Trajectory, error) {
	return linearTrajectory{origin: p.from, state: initial}, nil
}

func TestPredictMut_SamplesAtSamplingPeriodAndMarksPredicted(t *testing.T) {
	rec := NewRecord(Header{
		Version: VersionD, DataType: DataTypeVelocity,
		SamplingPeriod: 900 * time.Second,
	})
	g01 := mustSV(t, "G01")
	last := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	rec.Store.Insert(g01, last, NewEntryWithVelocity([3]float64{1, 2, 3}, [3]float64{0.01, 0.02, 0.03}))
	rec.Header.NumEpochs = 1

	until := last.Add(1800 * time.Second)
	err := PredictMut(rec, predictTestPropagator{from: last}, nil, until)
	require.NoError(t, err)

	first := last.Add(900 * time.Second)
	entry, ok := rec.Store.Get(g01, first)
	require.True(t, ok)
	assert.True(t, entry.PredictedOrbit)
	assert.InDelta(t, 1+0.01*900, entry.PositionKm[0], 1e-6)

	second, ok := rec.Store.Get(g01, until)
	require.True(t, ok)
	assert.True(t, second.PredictedOrbit)

	assert.Equal(t, uint64(3), rec.Header.NumEpochs)
}

func TestPredictMut_SkipsSatellitesWithUnresolvedDynamics(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, SamplingPeriod: 900 * time.Second})
	g01 := mustSV(t, "G01")
	last := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	rec.Store.Insert(g01, last, NewEntry([3]float64{1, 2, 3})) // no velocity

	until := last.Add(900 * time.Second)
	err := PredictMut(rec, predictTestPropagator{from: last}, nil, until)
	require.NoError(t, err)

	_, ok := rec.Store.Get(g01, until)
	assert.False(t, ok)
}

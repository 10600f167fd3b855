package sp3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

func mustSV(t *testing.T, s string) gnss.SV {
	t.Helper()
	v, err := gnss.ParseSV(s)
	require.NoError(t, err)
	return v
}

func buildTestStore(t *testing.T) (*Store, Epoch, Epoch) {
	t.Helper()
	s := NewStore()

	e0 := NewEpoch(2020, time.January, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(15 * time.Minute)

	g01 := mustSV(t, "G01")
	g02 := mustSV(t, "G02")

	s.Insert(g02, e0, NewEntry([3]float64{1, 1, 1}))
	s.Insert(g01, e0, NewEntry([3]float64{0, 0, 0}))
	s.Insert(g01, e1, NewEntry([3]float64{1, 2, 3}).WithClockOffset(5e-6))

	entryWithManeuver := NewEntry([3]float64{9, 9, 9})
	entryWithManeuver.Maneuver = true
	s.Insert(g02, e1, entryWithManeuver)

	return s, e0, e1
}

func TestStore_EpochsAndSatellitesAreOrdered(t *testing.T) {
	s, e0, e1 := buildTestStore(t)

	var epochs []Epoch
	for e := range s.Epochs() {
		epochs = append(epochs, e)
	}
	assert.Equal(t, []Epoch{e0, e1}, epochs)

	var svs []gnss.SV
	for sv := range s.Satellites() {
		svs = append(svs, sv)
	}
	assert.Equal(t, []gnss.SV{mustSV(t, "G01"), mustSV(t, "G02")}, svs)
}

func TestStore_PositionsOrderedByEpochThenSV(t *testing.T) {
	s, e0, _ := buildTestStore(t)

	var firstEpochSVs []gnss.SV
	for p := range s.Positions() {
		if !p.Epoch.Equal(e0) {
			break
		}
		firstEpochSVs = append(firstEpochSVs, p.SV)
	}
	assert.Equal(t, []gnss.SV{mustSV(t, "G01"), mustSV(t, "G02")}, firstEpochSVs)
}

func TestStore_StablePositionsDropsManeuvers(t *testing.T) {
	s, _, _ := buildTestStore(t)

	count := 0
	for p := range s.StablePositions() {
		assert.False(t, p.Maneuver)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestStore_ClockOffsetSecondsRescales(t *testing.T) {
	s, _, _ := buildTestStore(t)

	found := false
	for c := range s.ClockOffsetSeconds() {
		assert.Equal(t, mustSV(t, "G01"), c.SV)
		assert.InDelta(t, 5e-12, c.Seconds, 1e-20)
		found = true
	}
	assert.True(t, found)
}

func TestStore_Maneuvers(t *testing.T) {
	s, _, e1 := buildTestStore(t)

	var got []EpochSV
	for m := range s.Maneuvers() {
		got = append(got, m)
	}
	require.Len(t, got, 1)
	assert.Equal(t, mustSV(t, "G02"), got[0].SV)
	assert.True(t, got[0].Epoch.Equal(e1))
}

func TestStore_GetAndRemove(t *testing.T) {
	s, e0, _ := buildTestStore(t)

	e, ok := s.Get(mustSV(t, "G01"), e0)
	assert.True(t, ok)
	assert.Equal(t, [3]float64{0, 0, 0}, e.PositionKm)

	s.Remove(mustSV(t, "G01"), e0)
	_, ok = s.Get(mustSV(t, "G01"), e0)
	assert.False(t, ok)
}

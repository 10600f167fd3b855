package sp3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVelocitiesMut_FirstDifferenceOverGap(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	e01 := mustSV(t, "E01")

	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(900 * time.Second)

	rec.Store.Insert(e01, e0, NewEntry([3]float64{10000, 20000, 30000}))
	rec.Store.Insert(e01, e1, NewEntry([3]float64{10009, 19991, 30018}))

	upgraded := ResolveVelocitiesMut(rec)
	require.True(t, upgraded)
	assert.Equal(t, DataTypeVelocity, rec.Header.DataType)

	first, ok := rec.Store.Get(e01, e0)
	require.True(t, ok)
	assert.Nil(t, first.VelocityKmS)

	second, ok := rec.Store.Get(e01, e1)
	require.True(t, ok)
	require.NotNil(t, second.VelocityKmS)
	assert.InDelta(t, 0.01, second.VelocityKmS[0], 1e-9)
	assert.InDelta(t, -0.01, second.VelocityKmS[1], 1e-9)
	assert.InDelta(t, 0.02, second.VelocityKmS[2], 1e-9)
}

func TestResolveVelocitiesMut_NeverOverwritesExisting(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypeVelocity})
	g01 := mustSV(t, "G01")

	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(900 * time.Second)

	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))
	rec.Store.Insert(g01, e1, NewEntryWithVelocity([3]float64{1, 2, 3}, [3]float64{7, 7, 7}))

	upgraded := ResolveVelocitiesMut(rec)
	assert.False(t, upgraded)

	entry, ok := rec.Store.Get(g01, e1)
	require.True(t, ok)
	require.NotNil(t, entry.VelocityKmS)
	assert.Equal(t, [3]float64{7, 7, 7}, *entry.VelocityKmS)
}

func TestResolveVelocities_Idempotent(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	g01 := mustSV(t, "G01")

	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(900 * time.Second)

	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))
	rec.Store.Insert(g01, e1, NewEntry([3]float64{2, 4, 6}))

	once := ResolveVelocities(rec)
	twice := ResolveVelocities(once)

	onceEntry, _ := once.Store.Get(g01, e1)
	twiceEntry, _ := twice.Store.Get(g01, e1)
	assert.Equal(t, *onceEntry.VelocityKmS, *twiceEntry.VelocityKmS)

	// the original record is untouched
	original, _ := rec.Store.Get(g01, e1)
	assert.Nil(t, original.VelocityKmS)
	assert.Equal(t, DataTypePosition, rec.Header.DataType)
}

func TestResolveClockDriftMut_SkipsAbsentClockAndNeverOverwrites(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	g01 := mustSV(t, "G01")

	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(900 * time.Second)
	e2 := e1.Add(900 * time.Second)

	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3})) // no clock
	rec.Store.Insert(g01, e1, NewEntry([3]float64{1, 2, 3}).WithClockOffset(10.0))
	existingDrift := 5.0
	withDrift := NewEntry([3]float64{1, 2, 3}).WithClockOffset(11.0)
	withDrift.ClockDriftNs = &existingDrift
	rec.Store.Insert(g01, e2, withDrift)

	filled := ResolveClockDriftMut(rec)
	require.False(t, filled)

	atE1, ok := rec.Store.Get(g01, e1)
	require.True(t, ok)
	assert.Nil(t, atE1.ClockDriftNs, "no previous clock to diff against")

	atE2, ok := rec.Store.Get(g01, e2)
	require.True(t, ok)
	require.NotNil(t, atE2.ClockDriftNs)
	assert.Equal(t, existingDrift, *atE2.ClockDriftNs, "existing drift must not be overwritten")

	// DataType upgrade is not this operation's responsibility on its own.
	assert.Equal(t, DataTypePosition, rec.Header.DataType)
}

func TestResolveDynamicsMut_UpgradesOnlyWhenSomethingFilled(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	g01 := mustSV(t, "G01")

	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)

	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))

	upgraded := ResolveDynamicsMut(rec)
	assert.False(t, upgraded, "a lone entry has no previous sample to diff against")
	assert.Equal(t, DataTypePosition, rec.Header.DataType)

	e1 := e0.Add(900 * time.Second)
	rec.Store.Insert(g01, e1, NewEntry([3]float64{2, 4, 6}))

	upgraded = ResolveDynamicsMut(rec)
	assert.True(t, upgraded)
	assert.Equal(t, DataTypeVelocity, rec.Header.DataType)

	entry, _ := rec.Store.Get(g01, e1)
	require.NotNil(t, entry.VelocityKmS)
	assert.Nil(t, entry.ClockDriftNs, "neither entry carried a clock offset")
}

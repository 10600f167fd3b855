package sp3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransposeSimple_RewritesEpochsAndHeader(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, Timescale: GPST})
	rec.Header.ReleaseEpoch = NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)

	g01 := mustSV(t, "G01")
	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))

	out := TransposeSimple(rec, UTC)

	assert.Equal(t, UTC, out.Header.Timescale)
	assert.Equal(t, UTC, out.Header.ReleaseEpoch.Scale())

	var found bool
	for p := range out.Store.Positions() {
		assert.Equal(t, UTC, p.Epoch.Scale())
		found = true
	}
	assert.True(t, found)

	// the original record is untouched
	for p := range rec.Store.Positions() {
		assert.Equal(t, GPST, p.Epoch.Scale())
	}
}

type staticCorrectionDB struct {
	corrections []Correction
}

func (db staticCorrectionDB) Lookup(source, target Scale, at Epoch) (Correction, bool) {
	for _, c := range db.corrections {
		if c.Source != source || c.Target != target {
			continue
		}
		if at.Before(c.From) || !at.Before(c.To) {
			continue
		}
		return c, true
	}
	return Correction{}, false
}

func TestTransposePrecise_AppliesPolynomialAndFailsWithoutCoverage(t *testing.T) {
	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	e1 := e0.Add(900 * time.Second)

	db := staticCorrectionDB{corrections: []Correction{
		{
			Source: GPST, Target: TAI,
			From: e0, To: e1.Add(time.Second),
			Polynomial: func(tSeconds float64) float64 { return 19.0 },
		},
	}}

	rec := NewRecord(Header{Version: VersionD, Timescale: GPST})
	rec.Header.ReleaseEpoch = e0
	g01 := mustSV(t, "G01")
	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))

	out, err := TransposePrecise(rec, TAI, db)
	require.NoError(t, err)
	assert.Equal(t, TAI, out.Header.Timescale)

	expectedEpoch := Epoch{unixNanos: e0.unixNanos + int64(19*time.Second), scale: TAI}
	entry, ok := out.Store.Get(g01, expectedEpoch)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, entry.PositionKm)

	_, err = TransposePrecise(rec, GST, db)
	require.Error(t, err)
	var noCorrection *NoCorrectionAvailable
	assert.ErrorAs(t, err, &noCorrection)
}

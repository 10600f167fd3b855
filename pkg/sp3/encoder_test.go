package sp3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_RoundTripsSampleFile(t *testing.T) {
	dec := NewDecoder(strings.NewReader(sampleFile))
	rec, err := dec.Decode()
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, NewEncoder(&buf).Encode(rec))

	assert.Equal(t, sampleFile, buf.String())
}

func TestEncoder_OmitsVelocityLineWhenAbsent(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	e := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	rec.Store.Insert(mustSV(t, "G01"), e, NewEntry([3]float64{1, 2, 3}))

	var buf strings.Builder
	require.NoError(t, NewEncoder(&buf).Encode(rec))

	assert.NotContains(t, buf.String(), "VG01")
	assert.Contains(t, buf.String(), "PG01")
}

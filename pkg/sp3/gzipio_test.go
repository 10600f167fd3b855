package sp3

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGzipAndOpenGzip_RoundTripsPlainAndCompressed(t *testing.T) {
	rec := NewRecord(Header{Version: VersionD, DataType: DataTypePosition})
	g01 := mustSV(t, "G01")
	e0 := NewEpoch(2020, 1, 1, 0, 0, 0, 0, GPST)
	rec.Store.Insert(g01, e0, NewEntry([3]float64{1, 2, 3}))

	dir := t.TempDir()

	plainPath := filepath.Join(dir, "sample.sp3")
	require.NoError(t, SaveGzip(plainPath, rec))
	_, err := os.Stat(plainPath)
	require.NoError(t, err)

	reread, err := OpenGzip(plainPath)
	require.NoError(t, err)
	entry, ok := reread.Store.Get(g01, e0)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, entry.PositionKm)

	gzPath := filepath.Join(dir, "sample.sp3.gz")
	require.NoError(t, SaveGzip(gzPath, rec))

	rereadGz, err := OpenGzip(gzPath)
	require.NoError(t, err)
	entryGz, ok := rereadGz.Store.Get(g01, e0)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, entryGz.PositionKm)
}

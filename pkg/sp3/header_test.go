package sp3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnss-tools/sp3/pkg/gnss"
)

func TestParseH1(t *testing.T) {
	line := "#dV2020 12 24 21 43 54.12345678    1000 __u+U IGS14 FIT  IAC"

	h, err := ParseH1(line)
	require.NoError(t, err)

	assert.Equal(t, VersionD, h.Version)
	assert.Equal(t, DataTypeVelocity, h.DataType)
	assert.Equal(t, UTC, h.ReleaseEpoch.Scale())
	assert.Equal(t, "2020-12-24T21:43:54.12345678 UTC", h.ReleaseEpoch.String())
	assert.EqualValues(t, 1000, h.NumEpochs)
	assert.Equal(t, "__u+U", h.Observables)
	assert.Equal(t, "IGS14", h.CoordSystem)
	assert.Equal(t, OrbitFIT, h.OrbitType)
	assert.Equal(t, "IAC", h.Agency)
}

func TestFormatH1_RoundTrips(t *testing.T) {
	line := "#dV2020 12 24 21 43 54.12345678    1000 __u+U IGS14 FIT  IAC"

	h, err := ParseH1(line)
	require.NoError(t, err)

	assert.Equal(t, line, FormatH1(h))
}

func TestParseH1_MalformedShortLine(t *testing.T) {
	_, err := ParseH1("#dV2020")
	assert.Error(t, err)
	assert.IsType(t, &ParseStructureError{}, err)
}

func TestParseH1_NonSupportedRevision(t *testing.T) {
	line := "#zV2020 12 24 21 43 54.12345678    1000 __u+U IGS14 FIT  IAC"
	_, err := ParseH1(line)
	assert.ErrorIs(t, err, ErrNonSupportedRevision)
}

func TestParseH2(t *testing.T) {
	line := "## 2276  21600.00000000   900.00000000 60176 0.2500000000000"

	var h Header
	require.NoError(t, ParseH2(line, &h))

	assert.EqualValues(t, 2276, h.Week)
	assert.EqualValues(t, 21600*1e9, h.WeekNanos)
	assert.Equal(t, 900*time.Second, h.SamplingPeriod)
	assert.EqualValues(t, 60176, h.MJD)
	assert.InDelta(t, 0.25, h.MJDFraction, 1e-12)
}

func TestFormatH2_RoundTrips(t *testing.T) {
	line := "## 2276  21600.00000000   900.00000000 60176 0.2500000000000"

	var h Header
	require.NoError(t, ParseH2(line, &h))

	assert.Equal(t, line, FormatH2(h))
}

func TestDescriptorLine1_RoundTrips(t *testing.T) {
	var h Header
	h.Constellation = gnss.SysGPS
	h.Timescale = GPST

	line := FormatDescriptorLine1(h)
	assert.Equal(t, "%c G  cc GPS ccc cccc cccc cccc cccc ccccc ccccc ccccc ccccc", line)

	var parsed Header
	require.NoError(t, ParseDescriptorLine1(line, &parsed))
	assert.Equal(t, gnss.SysGPS, parsed.Constellation)
	assert.Equal(t, GPST, parsed.Timescale)
}

func TestDescriptorLine2_FixedPlaceholder(t *testing.T) {
	line := FormatDescriptorLine2()
	assert.Equal(t, "%c cc cc ccc ccc cccc cccc cccc cccc ccccc ccccc ccccc ccccc", line)
	assert.NoError(t, ParseDescriptorLine2(line))
	assert.NoError(t, ParseDescriptorLine2("%c anything else entirely"))
	assert.Error(t, ParseDescriptorLine2("not a descriptor line"))
}

func TestHeaderValidate(t *testing.T) {
	h := Header{Agency: "IAC", Observables: "__u+U", CoordSystem: "IGS14"}
	assert.NoError(t, h.Validate())

	bad := Header{Agency: "TOOLONG", Observables: "__u+U", CoordSystem: "IGS14"}
	assert.Error(t, bad.Validate())
}

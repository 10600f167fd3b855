package gnss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Abbr(t *testing.T) {
	assert.Equal(t, "G", SysGPS.Abbr())
	assert.Equal(t, "E", SysGAL.Abbr())
	assert.Equal(t, "M", SysMixed.Abbr())
}

func TestSystems_String(t *testing.T) {
	syss := Systems{SysGPS, SysGAL, SysBDS}
	assert.Equal(t, "GPS+Galileo+BeiDou", syss.String())
}

func TestParseSV(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    SV
		wantErr bool
	}{
		{name: "gps", s: "G01", want: SV{Sys: SysGPS, PRN: 1}},
		{name: "gal", s: "E05", want: SV{Sys: SysGAL, PRN: 5}},
		{name: "bds-padded", s: "C123", want: SV{Sys: SysBDS, PRN: 123}},
		{name: "unknown-system", s: "X01", wantErr: true},
		{name: "too-short", s: "G", wantErr: true},
		{name: "bad-prn", s: "GXX", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSV(tt.s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSV_String(t *testing.T) {
	assert.Equal(t, "G01", SV{Sys: SysGPS, PRN: 1}.String())
	assert.Equal(t, "E23", SV{Sys: SysGAL, PRN: 23}.String())
}

func TestParseSVGPSOnly(t *testing.T) {
	sv, err := ParseSVGPSOnly(" 5")
	assert.NoError(t, err)
	assert.Equal(t, SV{Sys: SysGPS, PRN: 5}, sv)
}

func TestBySV_Sort(t *testing.T) {
	svs := []SV{
		{Sys: SysGAL, PRN: 1},
		{Sys: SysGPS, PRN: 12},
		{Sys: SysGPS, PRN: 1},
	}
	sortable := BySV(svs)
	assert.True(t, sortable.Less(2, 1))
	assert.False(t, sortable.Less(0, 1))
}

package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloatList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []float64
	}{
		{"empty", "", nil},
		{"single", "1.5", []float64{1.5}},
		{"multi", "-0.2, 0, 0.2", []float64{-0.2, 0, 0.2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseFloatList(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseFloatListInvalid(t *testing.T) {
	_, err := parseFloatList("1.0, abc")
	require.Error(t, err)
}

func TestParseLocAttr(t *testing.T) {
	loc, err := parseLocAttr("-31.5, 115.8")
	require.NoError(t, err)
	assert.InDelta(t, -31.5, loc.Lat, 1e-9)
	assert.InDelta(t, 115.8, loc.Lon, 1e-9)

	loc, err = parseLocAttr("-31.5, 115.8, 10")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, loc.Depth, 1e-9)

	_, err = parseLocAttr("-31.5")
	require.Error(t, err)
}

func TestParseMagDepthMap(t *testing.T) {
	groups, err := parseMagDepthMap("[6.5 :: [5:0.5, 10:0.5]; 10.0 :: [15:1.0]]")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.InDelta(t, 6.5, groups[0].MagCutoff, 1e-9)
	require.Len(t, groups[0].Depths, 2)
	assert.InDelta(t, 5.0, groups[0].Depths[0].Depth, 1e-9)
	assert.InDelta(t, 0.5, groups[0].Depths[0].Weight, 1e-9)
	assert.InDelta(t, 10.0, groups[1].MagCutoff, 1e-9)
}

func TestParseMagDepthMapEmpty(t *testing.T) {
	_, err := parseMagDepthMap("")
	require.Error(t, err)
}

func TestParseFocalMechMap(t *testing.T) {
	w, err := parseFocalMechMap("[STRIKE_SLIP:0.5, REVERSE:0.3, NORMAL:0.2]")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, w.SS, 1e-9)
	assert.InDelta(t, 0.3, w.REV, 1e-9)
	assert.InDelta(t, 0.2, w.NOR, 1e-9)
}

func TestParseFocalMechMapUnknownMech(t *testing.T) {
	_, err := parseFocalMechMap("[WOBBLE:1.0]")
	require.Error(t, err)
}

func TestParseRangeStringAscendingAndDescending(t *testing.T) {
	got, err := parseRangeString("[[0:3],7,[10:8]]")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 7, 10, 9, 8}, got)
}

func TestParseRangeStringSingle(t *testing.T) {
	got, err := parseRangeString("[4]")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, got)
}

func TestParseRangeStringEmpty(t *testing.T) {
	_, err := parseRangeString("")
	require.Error(t, err)
}

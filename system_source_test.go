package erf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSection(lat1, lon1, lat2, lon2 float64) *GriddedSurface {
	trace := LocationList{NewLocation(lat1, lon1, 0), NewLocation(lat2, lon2, 0)}
	surf, err := NewGriddedSurface(trace, 90, 15, 1.0)
	if err != nil {
		panic(err)
	}
	return surf
}

// TestSystemSourceSetBitsetInvariant verifies every rupture's bitset
// has >= 2 set bits, and every set bit is < the section count.
func TestSystemSourceSetBitsetInvariant(t *testing.T) {
	sections := []*GriddedSurface{
		testSection(-31.0, 115.0, -31.2, 115.3),
		testSection(-31.2, 115.3, -31.4, 115.6),
		testSection(-31.4, 115.6, -31.6, 115.9),
	}

	builder := &SystemSourceSetBuilder{
		Name:           "Indexed",
		Weight:         1.0,
		Sections:       sections,
		SectionIndices: [][]int{{0, 1}, {0, 1, 2}},
		Mag:            []float64{7.0, 7.5},
		Rate:           []float64{1e-4, 5e-5},
		Depth:          []float64{0, 0},
		Dip:            []float64{90, 90},
		Width:          []float64{15, 15},
		Rake:           []float64{0, 0},
	}

	set, err := builder.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, set.NumSections())
	assert.Equal(t, 2, set.NumRuptures())

	for _, src := range set.Sources() {
		sys, ok := src.(*systemSource)
		require.True(t, ok)
		bs := sys.set.bitsets[sys.idx]
		assert.GreaterOrEqual(t, bs.count(), 2)
		assert.Less(t, bs.maxBit(), set.NumSections())
	}
}

// TestSystemSourceSetDistanceFilterIntersection: an indexed source set
// with 5 sections {0..4} and 3
// ruptures with section bit-sets {0,1}, {2,3,4}, {1,2,3}. Sections 0 and
// 1 sit near the query site, sections 2-4 sit far away, so the
// section-hit bit-set is {0,1}; only ruptures whose bit-set intersects
// it pass: rupture 0 ({0,1}, shares both bits) and rupture 2 ({1,2,3},
// shares bit 1) pass, rupture 1 ({2,3,4}, shares none) does not.
func TestSystemSourceSetDistanceFilterIntersection(t *testing.T) {
	sections := []*GriddedSurface{
		testSection(-31.00, 115.00, -31.05, 115.05),
		testSection(-31.02, 115.02, -31.07, 115.07),
		testSection(10.00, 150.00, 10.20, 150.30),
		testSection(10.20, 150.30, 10.40, 150.60),
		testSection(10.40, 150.60, 10.60, 150.90),
	}

	builder := &SystemSourceSetBuilder{
		Name:           "Indexed",
		Weight:         1.0,
		Sections:       sections,
		SectionIndices: [][]int{{0, 1}, {2, 3, 4}, {1, 2, 3}},
		Mag:            []float64{6.5, 7.0, 7.5},
		Rate:           []float64{1e-4, 2e-4, 3e-4},
		Depth:          []float64{0, 0, 0},
		Dip:            []float64{90, 90, 90},
		Width:          []float64{15, 15, 15},
		Rake:           []float64{0, 0, 0},
	}
	set, err := builder.Build()
	require.NoError(t, err)

	site := NewLocation(-31.0, 115.0, 0)
	passing := set.DistanceFilter(site, 20.0)

	var mags []float64
	for _, src := range passing {
		r, ok := src.Iterator().Next()
		require.True(t, ok)
		mags = append(mags, r.Mag)
	}
	assert.ElementsMatch(t, []float64{6.5, 7.5}, mags)
}

// TestSystemSourceSetSectionDistances covers the concurrent per-section
// distance computation: near sections get populated flat-array entries,
// far sections stay unmarked.
func TestSystemSourceSetSectionDistances(t *testing.T) {
	sections := []*GriddedSurface{
		testSection(-31.00, 115.00, -31.05, 115.05),
		testSection(-31.02, 115.02, -31.07, 115.07),
		testSection(10.00, 150.00, 10.20, 150.30),
	}
	builder := &SystemSourceSetBuilder{
		Name:           "Indexed",
		Weight:         1.0,
		Sections:       sections,
		SectionIndices: [][]int{{0, 1}, {1, 2}},
		Mag:            []float64{6.5, 7.0},
		Rate:           []float64{1e-4, 2e-4},
		Depth:          []float64{0, 0},
		Dip:            []float64{90, 90},
		Width:          []float64{15, 15},
		Rake:           []float64{0, 0},
	}
	set, err := builder.Build()
	require.NoError(t, err)

	site := NewLocation(-31.0, 115.0, 0)
	dists := set.SectionDistancesTo(site, 20.0, 4)

	require.Len(t, dists.Hit, 3)
	assert.True(t, dists.Hit[0])
	assert.True(t, dists.Hit[1])
	assert.False(t, dists.Hit[2])
	assert.Less(t, dists.RJB[0], 20.0)
	assert.GreaterOrEqual(t, dists.RRup[0], dists.RJB[0])
}

func TestSystemSourceSetRejectsSingleSectionRupture(t *testing.T) {
	sections := []*GriddedSurface{
		testSection(-31.0, 115.0, -31.2, 115.3),
		testSection(-31.2, 115.3, -31.4, 115.6),
	}
	builder := &SystemSourceSetBuilder{
		Name:           "Bad",
		Weight:         1.0,
		Sections:       sections,
		SectionIndices: [][]int{{0}},
		Mag:            []float64{7.0},
		Rate:           []float64{1e-4},
		Depth:          []float64{0},
		Dip:            []float64{90},
		Width:          []float64{15},
		Rake:           []float64{0},
	}
	_, err := builder.Build()
	require.Error(t, err)
}

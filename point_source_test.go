package erf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPointSourceSingleStrikeSlipNode: a grid point source at
// (34, -118), single magnitude 6.0, depth map [10::[5:1.0]], focal
// mechs {SS:1, REV:0, NOR:0}. The iterator must
// yield exactly one rupture with rake=0, mechanism dip=90, rate equal to
// the nominal MFD rate, and zTop=5; the FINITE variant yields the same
// single rupture since a pure-SS node never duplicates onto hanging
// wall/footwall.
func TestPointSourceSingleStrikeSlipNode(t *testing.T) {
	const nominalRate = 0.0025
	mfd, err := NewSingleMfd(6.0, nominalRate, false)
	require.NoError(t, err)

	entries := []MagDepthEntry{{MagCutoff: 10, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}}
	mechs := FocalMechWeights{SS: 1, REV: 0, NOR: 0}
	bins := flattenMagDepth(mfd, entries)
	require.Len(t, bins, 1)
	assert.Equal(t, 5.0, bins[0].Depth)

	loc := NewLocation(34.0, -118.0, 0)

	engine := newPointEngine(loc, mfd, bins, mechs, WC1994_LENGTH, POINT, 0, 1.0)
	src := &PointSource{name: "node", engine: engine}
	require.Equal(t, 1, src.Size())

	it := src.Iterator()
	r, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 0.0, r.Rake)
	assert.InDelta(t, nominalRate, r.Rate, 1e-15)
	assert.Equal(t, 6.0, r.Mag)

	dip, rake := mechGeometry(MechSS)
	assert.Equal(t, 90.0, dip)
	assert.Equal(t, 0.0, rake)

	_, ok = it.Next()
	assert.False(t, ok)

	finiteEngine := newPointEngine(loc, mfd, bins, mechs, WC1994_LENGTH, FINITE, 0, 1.0)
	finite := &PointSourceFinite{name: "node-finite", engine: finiteEngine}
	assert.Equal(t, 1, finite.Size())

	fit := finite.Iterator()
	fr, ok := fit.Next()
	require.True(t, ok)
	assert.Equal(t, 0.0, fr.Rake)
	assert.InDelta(t, nominalRate, fr.Rate, 1e-15)
	_, ok = fit.Next()
	assert.False(t, ok)
}

// TestPointSourceMagDepthLookupTable: a grid point source with a
// two-cutoff depth map
// [6.5::[1:0.4,3:0.5,5:0.1]; 10::[1:0.1,5:0.9]], an MFD of 5 magnitudes
// (5.0..7.0 by 0.5) at rate 1.0 each, focal mechs {SS:1, REV:0, NOR:0}.
// The flattened lookup table has 13 entries (3 depths for each of the 3
// sub-6.5 magnitudes, 2 depths for each of the 2 magnitudes at or above
// 6.5), the iterator yields 13 ruptures, and the m=5.0 bin's depths and
// weights match the first cutoff group exactly.
func TestPointSourceMagDepthLookupTable(t *testing.T) {
	mfd, err := NewIncrementalMfd(
		[]float64{5.0, 5.5, 6.0, 6.5, 7.0},
		[]float64{1.0, 1.0, 1.0, 1.0, 1.0},
		false,
	)
	require.NoError(t, err)

	entries := []MagDepthEntry{
		{MagCutoff: 6.5, Depths: []DepthWeight{{Depth: 1, Weight: 0.4}, {Depth: 3, Weight: 0.5}, {Depth: 5, Weight: 0.1}}},
		{MagCutoff: 10, Depths: []DepthWeight{{Depth: 1, Weight: 0.1}, {Depth: 5, Weight: 0.9}}},
	}
	mechs := FocalMechWeights{SS: 1, REV: 0, NOR: 0}

	bins := flattenMagDepth(mfd, entries)
	require.Len(t, bins, 13)

	var m5Bins []magDepthBin
	for _, b := range bins {
		if b.MagIdx == 0 {
			m5Bins = append(m5Bins, b)
		}
	}
	require.Len(t, m5Bins, 3)
	assert.Equal(t, []float64{1, 3, 5}, []float64{m5Bins[0].Depth, m5Bins[1].Depth, m5Bins[2].Depth})
	assert.Equal(t, []float64{0.4, 0.5, 0.1}, []float64{m5Bins[0].Weight, m5Bins[1].Weight, m5Bins[2].Weight})

	loc := NewLocation(34.0, -118.0, 0)
	engine := newPointEngine(loc, mfd, bins, mechs, WC1994_LENGTH, POINT, 0, 1.0)
	src := &PointSource{name: "node", engine: engine}
	require.Equal(t, 13, src.Size())

	var count int
	it := src.Iterator()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		count++
		assert.GreaterOrEqual(t, r.Mag, 4.0)
		assert.LessOrEqual(t, r.Mag, 10.0)
		assert.GreaterOrEqual(t, r.Rate, 0.0)
	}
	assert.Equal(t, 13, count)
}

// TestGridSourceSetBuilderRejectsIncompleteMagDepthMap exercises
// GridSourceSetBuilder's validation that magDepthMap must cover the
// maximum MFD magnitude of every node (point_source.go's Build()).
func TestGridSourceSetBuilderRejectsIncompleteMagDepthMap(t *testing.T) {
	mfd, err := NewSingleMfd(9.0, 1e-4, false)
	require.NoError(t, err)

	builder := &GridSourceSetBuilder{
		Name:        "Incomplete",
		Weight:      1.0,
		Msr:         WC1994_LENGTH,
		Variant:     POINT,
		MagDepthMap: []MagDepthEntry{{MagCutoff: 7.0, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}},
		Nodes: []GridNode{
			{Name: "n0", Loc: NewLocation(34.0, -118.0, 0), Mfd: mfd},
		},
	}
	_, err = builder.Build()
	require.Error(t, err)
}

// TestGridSourceSetBuilderRejectsEmptyNodes and
// TestGridSourceSetBuilderRejectsWeightOutOfRange cover the remaining
// GridSourceSetBuilder.Build() validation paths.
func TestGridSourceSetBuilderRejectsEmptyNodes(t *testing.T) {
	builder := &GridSourceSetBuilder{
		Name:        "Empty",
		Weight:      1.0,
		Msr:         WC1994_LENGTH,
		Variant:     POINT,
		MagDepthMap: []MagDepthEntry{{MagCutoff: 10, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}},
	}
	_, err := builder.Build()
	require.Error(t, err)
}

func TestGridSourceSetBuilderRejectsWeightOutOfRange(t *testing.T) {
	mfd, err := NewSingleMfd(6.0, 1e-3, false)
	require.NoError(t, err)

	builder := &GridSourceSetBuilder{
		Name:        "BadWeight",
		Weight:      1.5,
		Msr:         WC1994_LENGTH,
		Variant:     POINT,
		MagDepthMap: []MagDepthEntry{{MagCutoff: 10, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}},
		Nodes: []GridNode{
			{Name: "n0", Loc: NewLocation(34.0, -118.0, 0), Mfd: mfd},
		},
	}
	_, err = builder.Build()
	require.Error(t, err)
}

// TestPointSourceFiniteRateSum verifies that the rate summed over every
// finite-variant rupture index equals
// sum_j mfd.rate(j) x sum_k magDepthWeight(j,k) x sum_mech mechWeight,
// where finite non-strike-slip mechanisms contribute their weight split
// in half across the footwall/hanging-wall pair.
func TestPointSourceFiniteRateSum(t *testing.T) {
	mfd, err := NewIncrementalMfd(
		[]float64{5.5, 6.0, 6.5},
		[]float64{3e-3, 2e-3, 1e-3},
		false,
	)
	require.NoError(t, err)

	entries := []MagDepthEntry{
		{MagCutoff: 6.2, Depths: []DepthWeight{{Depth: 2, Weight: 0.6}, {Depth: 6, Weight: 0.4}}},
		{MagCutoff: 10, Depths: []DepthWeight{{Depth: 4, Weight: 1.0}}},
	}
	mechs := FocalMechWeights{SS: 0.5, REV: 0.3, NOR: 0.2}

	bins := flattenMagDepth(mfd, entries)
	engine := newPointEngine(NewLocation(34.0, -118.0, 0), mfd, bins, mechs, WC1994_LENGTH, FINITE, 0, 1.0)
	src := &PointSourceFinite{name: "sum", engine: engine}

	var got float64
	for i := 0; i < src.Size(); i++ {
		got += src.Get(i).Rate
	}

	// SS keeps its full weight; REV and NOR are halved across two
	// representations each, so the mechanism weights still sum to 1 and
	// the expected total is the depth-weighted MFD rate total.
	var want float64
	for _, b := range bins {
		want += mfd.Rate(b.MagIdx) * b.Weight
	}
	assert.InDelta(t, want, got, want*1e-12)
}

// TestPointSourceIteratorMatchesGet verifies the reused-buffer iterator
// and the allocating Get path agree rupture for rupture.
func TestPointSourceIteratorMatchesGet(t *testing.T) {
	mfd, err := NewSingleMfd(6.0, 1e-3, false)
	require.NoError(t, err)

	entries := []MagDepthEntry{{MagCutoff: 10, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}}
	mechs := FocalMechWeights{SS: 0.4, REV: 0.6, NOR: 0}
	bins := flattenMagDepth(mfd, entries)
	engine := newPointEngine(NewLocation(34.0, -118.0, 0), mfd, bins, mechs, WC1994_LENGTH, FINITE, 0, 1.0)
	src := &PointSourceFinite{name: "iter", engine: engine}

	var fromIter []Rupture
	it := src.Iterator()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		fromIter = append(fromIter, *r)
	}

	var fromGet []Rupture
	for i := 0; i < src.Size(); i++ {
		r := src.Get(i)
		if r.Rate <= 0 {
			continue
		}
		fromGet = append(fromGet, r)
	}

	require.Equal(t, len(fromGet), len(fromIter))
	for i := range fromGet {
		assert.Equal(t, fromGet[i].Mag, fromIter[i].Mag)
		assert.Equal(t, fromGet[i].Rake, fromIter[i].Rake)
		assert.InDelta(t, fromGet[i].Rate, fromIter[i].Rate, 1e-15)
	}
}

// TestGridSourceSetDistanceFilter covers the Grid/Slab per-point filter.
func TestGridSourceSetDistanceFilter(t *testing.T) {
	mfd, err := NewSingleMfd(6.0, 1e-3, false)
	require.NoError(t, err)

	builder := &GridSourceSetBuilder{
		Name:        "Filter",
		Weight:      1.0,
		Msr:         WC1994_LENGTH,
		Variant:     POINT,
		MagDepthMap: []MagDepthEntry{{MagCutoff: 10, Depths: []DepthWeight{{Depth: 5, Weight: 1.0}}}},
		Nodes: []GridNode{
			{Name: "near", Loc: NewLocation(34.0, -118.0, 0), Mfd: mfd},
			{Name: "far", Loc: NewLocation(34.0, -110.0, 0), Mfd: mfd},
		},
	}
	set, err := builder.Build()
	require.NoError(t, err)

	passing := set.DistanceFilter(NewLocation(34.0, -118.0, 0), 50.0)
	require.Len(t, passing, 1)
	assert.Equal(t, "near", passing[0].Name())
}

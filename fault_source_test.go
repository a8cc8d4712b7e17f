package erf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrace() LocationList {
	return LocationList{
		NewLocation(-31.0, 115.0, 0),
		NewLocation(-31.5, 115.8, 0),
	}
}

// TestFaultSourceSetWeightScalesRates verifies a non-floating
// MFD-derived rupture's rate equals mfd.rate(i) x setWeight.
func TestFaultSourceSetWeightScalesRates(t *testing.T) {
	mfd, err := NewSingleMfd(7.0, 1e-3, false)
	require.NoError(t, err)

	weight := 0.4
	builder := &FaultSourceSetBuilder{
		Name:   "Test Set",
		Weight: weight,
		Msr:    WC1994_LENGTH,
		Sources: []*FaultSourceBuilder{
			{
				Name:        "Segment",
				Trace:       testTrace(),
				Dip:         90,
				Width:       15,
				Rake:        0,
				Offset:      1.0,
				Mfds:        []IncrementalMfd{mfd},
				Msr:         WC1994_LENGTH,
				MsrSet:      true,
				AspectRatio: 1.0,
				FloatStyle:  FULL_DOWN_DIP,
			},
		},
	}

	set, err := builder.Build()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, set.Weight(), 0.0)
	assert.LessOrEqual(t, set.Weight(), 1.0)

	sources := set.Sources()
	require.Len(t, sources, 1)

	it := sources[0].Iterator()
	var count int
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		count++
		assert.InDelta(t, mfd.Rate(0)*weight, r.Rate, 1e-15)
		assert.GreaterOrEqual(t, r.Rate, 0.0)
		assert.GreaterOrEqual(t, r.Mag, 4.0)
		assert.LessOrEqual(t, r.Mag, 10.0)
		assert.GreaterOrEqual(t, r.Rake, -180.0)
		assert.LessOrEqual(t, r.Rake, 180.0)
	}
	assert.Greater(t, count, 0)
}

func TestFaultSourceBuilderRejectsShortTrace(t *testing.T) {
	mfd, _ := NewSingleMfd(7.0, 1e-3, false)
	builder := &FaultSourceBuilder{
		Name:        "Bad",
		Trace:       LocationList{NewLocation(-31.0, 115.0, 0)},
		Dip:         90,
		Width:       15,
		Mfds:        []IncrementalMfd{mfd},
		Msr:         WC1994_LENGTH,
		MsrSet:      true,
		AspectRatio: 1.0,
	}
	_, err := builder.Build()
	require.Error(t, err)
}

func TestFaultSourceBuilderRejectsBadDip(t *testing.T) {
	mfd, _ := NewSingleMfd(7.0, 1e-3, false)
	builder := &FaultSourceBuilder{
		Name:        "Bad",
		Trace:       testTrace(),
		Dip:         120,
		Width:       15,
		Mfds:        []IncrementalMfd{mfd},
		Msr:         WC1994_LENGTH,
		MsrSet:      true,
		AspectRatio: 1.0,
	}
	_, err := builder.Build()
	require.Error(t, err)
}

// TestFaultSourceFloatingRupturesConserveRate verifies the sum of rates
// across a floating MFD bin's generated ruptures equals
// mfd.rate(i) x setWeight.
func TestFaultSourceFloatingRupturesConserveRate(t *testing.T) {
	mfd, err := NewGutenbergRichterMfd(6.0, 1.0, 6.5, 6.6, 0.1, true)
	require.NoError(t, err)

	weight := 1.0
	builder := &FaultSourceBuilder{
		Name:        "Floating",
		Trace:       testTrace(),
		Dip:         90,
		Width:       15,
		Rake:        0,
		Offset:      1.0,
		Mfds:        []IncrementalMfd{mfd},
		Msr:         WC1994_LENGTH,
		MsrSet:      true,
		AspectRatio: 1.0,
		FloatStyle:  FULL_DOWN_DIP,
	}
	fs, err := builder.Build()
	require.NoError(t, err)

	rateByMag := make(map[float64]float64)
	it := fs.Iterator()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		rateByMag[r.Mag] += r.Rate
	}

	for i := 0; i < mfd.MagCount(); i++ {
		want := mfd.Rate(i) * weight
		if want < 1e-14 {
			continue
		}
		got := rateByMag[mfd.Mag(i)]
		assert.InDelta(t, want, got, want*1e-9+1e-18)
	}
}

package erf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterFaultBuilder(name string, mag float64) *FaultSourceBuilder {
	return &FaultSourceBuilder{
		Name:        name,
		Trace:       testTrace(),
		Dip:         90,
		Width:       15,
		Rake:        0,
		Offset:      1.0,
		Mfds:        mustSingleMfd(mag, 1.0),
		Msr:         WC1994_LENGTH,
		MsrSet:      true,
		AspectRatio: 1.0,
		FloatStyle:  FULL_DOWN_DIP,
	}
}

func mustSingleMfd(mag, rate float64) []IncrementalMfd {
	mfd, err := NewSingleMfd(mag, rate, false)
	if err != nil {
		panic(err)
	}
	return []IncrementalMfd{mfd}
}

// TestClusterSourceBuilder: a cluster source with cluster rate
// 1/5000 yr and 3 SINGLE-MFD faults. The wrapped FaultSourceSet's size
// must be 3, the rate accessor must return 1/5000, and Iterator() must
// panic with ErrClusterIteration.
func TestClusterSourceBuilder(t *testing.T) {
	const rate = 1.0 / 5000.0
	builder := &ClusterSourceBuilder{
		Name: "Cluster",
		Rate: rate,
		Faults: []*FaultSourceBuilder{
			clusterFaultBuilder("f1", 6.5),
			clusterFaultBuilder("f2", 6.8),
			clusterFaultBuilder("f3", 7.0),
		},
	}

	cs, err := builder.Build()
	require.NoError(t, err)

	assert.Equal(t, rate, cs.Rate())
	require.Equal(t, 3, cs.Size())
	require.Len(t, cs.Faults().sources, 3)

	assert.PanicsWithValue(t, ErrClusterIteration, func() {
		cs.Iterator()
	})
}

func TestClusterSourceBuilderRejectsEmptyFaults(t *testing.T) {
	builder := &ClusterSourceBuilder{Name: "Empty", Rate: 1.0 / 1000.0}
	_, err := builder.Build()
	require.Error(t, err)
}

// TestClusterSourceBuilderRejectsMultiMagMfd verifies that a wrapped
// fault carrying more than one magnitude bin is rejected: cluster
// sources do not support uncertainty branching or G-R MFDs.
func TestClusterSourceBuilderRejectsMultiMagMfd(t *testing.T) {
	grMfd, err := NewGutenbergRichterMfd(3.0, 1.0, 6.0, 7.0, 0.5, false)
	require.NoError(t, err)

	builder := &ClusterSourceBuilder{
		Name: "BadFault",
		Rate: 1.0 / 1000.0,
		Faults: []*FaultSourceBuilder{
			{
				Name:        "f1",
				Trace:       testTrace(),
				Dip:         90,
				Width:       15,
				Rake:        0,
				Offset:      1.0,
				Mfds:        []IncrementalMfd{grMfd},
				Msr:         WC1994_LENGTH,
				MsrSet:      true,
				AspectRatio: 1.0,
				FloatStyle:  FULL_DOWN_DIP,
			},
		},
	}
	_, err = builder.Build()
	require.Error(t, err)
}

// TestClusterSourceSetBuildsAndFilters exercises ClusterSourceSetBuilder
// and ClusterSourceSet.DistanceFilter: a cluster passes when any
// wrapped fault passes the fault filter.
func TestClusterSourceSetBuildsAndFilters(t *testing.T) {
	near := &ClusterSourceBuilder{
		Name: "near",
		Rate: 1.0 / 5000.0,
		Faults: []*FaultSourceBuilder{
			clusterFaultBuilder("f1", 6.5),
		},
	}
	far := &ClusterSourceBuilder{
		Name: "far",
		Rate: 1.0 / 2000.0,
		Faults: []*FaultSourceBuilder{
			{
				Name:        "f2",
				Trace:       LocationList{NewLocation(10.0, 150.0, 0), NewLocation(10.5, 150.8, 0)},
				Dip:         90,
				Width:       15,
				Rake:        0,
				Offset:      1.0,
				Mfds:        mustSingleMfd(6.5, 1.0),
				Msr:         WC1994_LENGTH,
				MsrSet:      true,
				AspectRatio: 1.0,
				FloatStyle:  FULL_DOWN_DIP,
			},
		},
	}

	setBuilder := &ClusterSourceSetBuilder{
		Name:    "Set",
		Weight:  1.0,
		Sources: []*ClusterSourceBuilder{near, far},
	}
	set, err := setBuilder.Build()
	require.NoError(t, err)
	require.Len(t, set.Sources(), 2)

	passing := set.DistanceFilter(testTrace()[0], 50.0)
	require.Len(t, passing, 1)
	assert.Equal(t, "near", passing[0].Name())
}

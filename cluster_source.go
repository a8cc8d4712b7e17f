package erf

import "errors"

// ClusterSource represents an earthquake cluster: a set of faults that
// may each rupture independently but share one annual cluster rate.
// Iteration is intentionally unsupported; cluster
// hazard uses a joint-probability formula outside this core's scope.
type ClusterSource struct {
	name     string
	rate     float64
	faultSet *FaultSourceSet
}

func (s *ClusterSource) Name() string { return s.name }

// Size returns the number of wrapped faults.
func (s *ClusterSource) Size() int { return len(s.faultSet.sources) }

// Iterator always fails: cluster ruptures are not enumerated
// individually.
func (s *ClusterSource) Iterator() RuptureIterator {
	panic(ErrClusterIteration)
}

// Rate returns the cluster's annual occurrence rate.
func (s *ClusterSource) Rate() float64 { return s.rate }

// Faults returns the wrapped FaultSourceSet, e.g. for a joint-probability
// hazard calculator living outside this core.
func (s *ClusterSource) Faults() *FaultSourceSet { return s.faultSet }

// ClusterSourceBuilder assembles a ClusterSource. Each wrapped fault
// must carry exactly one SINGLE-magnitude MFD: cluster sources do not
// support uncertainty branching or G-R MFDs.
type ClusterSourceBuilder struct {
	Name   string
	Rate   float64
	Faults []*FaultSourceBuilder

	built bool
}

func (b *ClusterSourceBuilder) Build() (*ClusterSource, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if len(b.Faults) == 0 {
		return nil, errors.Join(ErrEmptySourceSet, &ValidationError{Component: "ClusterSource", Reason: "no wrapped faults"})
	}

	sources := make([]*FaultSource, 0, len(b.Faults))
	for _, fb := range b.Faults {
		if len(fb.Mfds) != 1 || fb.Mfds[0].MagCount() != 1 {
			return nil, &ValidationError{Component: "ClusterSource", Reason: "each wrapped fault must carry exactly one SINGLE-magnitude MFD"}
		}
		fs, err := fb.Build()
		if err != nil {
			return nil, err
		}
		sources = append(sources, fs)
	}

	set := &FaultSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: 1.0, sourceType: FAULT},
		sources:       sources,
	}

	return &ClusterSource{name: b.Name, rate: b.Rate, faultSet: set}, nil
}

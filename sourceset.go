package erf

import "github.com/samber/lo"

// SourceSet groups related Sources sharing a weight, a SourceType tag, a
// GmmSet, and a MagScalingType. MFD rates inside
// contained sources have already been multiplied by the set's weight at
// build time; the stored weight is retained only for diagnostic
// reconstruction.
type SourceSet interface {
	Name() string
	Weight() float64
	Type() SourceType
	Gmm() *GmmSet
	Sources() []Source

	// DistanceFilter returns the subset of Sources passing the per-type
	// filter predicate for loc at cutoff distance.
	DistanceFilter(loc Location, cutoff float64) []Source
}

// baseSourceSet carries the fields common to every SourceSet
// implementation.
type baseSourceSet struct {
	name       string
	weight     float64
	sourceType SourceType
	gmmSet     *GmmSet
	msr        MagScalingType
}

func (b *baseSourceSet) Name() string     { return b.name }
func (b *baseSourceSet) Weight() float64  { return b.weight }
func (b *baseSourceSet) Type() SourceType { return b.sourceType }
func (b *baseSourceSet) Gmm() *GmmSet     { return b.gmmSet }

// LocationIterable returns the sources of s that pass its distance
// filter at the set's own GmmSet cutoff. A set with no GmmSet attached
// yields no sources.
func LocationIterable(s SourceSet, loc Location) []Source {
	gmm := s.Gmm()
	if gmm == nil {
		return nil
	}
	return s.DistanceFilter(loc, gmm.MaxDistHi())
}

// scaleRuptureRates multiplies every rupture's rate by weight in place,
// folding the SourceSet-level weight into every contained rupture once
// at build time.
func scaleRuptureRates(ruptures []Rupture, weight float64) {
	for i := range ruptures {
		ruptures[i].Rate *= weight
	}
}

// FaultSourceSet groups FaultSources; its distance filter tests
// trace-endpoint horizontal distance.
type FaultSourceSet struct {
	baseSourceSet
	sources []*FaultSource
}

func (s *FaultSourceSet) Sources() []Source {
	return lo.Map(s.sources, func(fs *FaultSource, _ int) Source { return fs })
}

func (s *FaultSourceSet) DistanceFilter(loc Location, cutoff float64) []Source {
	passing := lo.Filter(s.sources, func(fs *FaultSource, _ int) bool {
		return fs.DistanceFilterPasses(loc, cutoff)
	})
	return lo.Map(passing, func(fs *FaultSource, _ int) Source { return fs })
}

// FaultSourceSetBuilder assembles a FaultSourceSet from a list of
// not-yet-built FaultSourceBuilders, applying the set weight to every
// produced rupture.
type FaultSourceSetBuilder struct {
	Name    string
	Weight  float64
	Msr     MagScalingType
	GmmSet  *GmmSet
	Sources []*FaultSourceBuilder

	built bool
}

func (b *FaultSourceSetBuilder) Build() (*FaultSourceSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if b.Weight < 0 || b.Weight > 1 {
		return nil, &ValidationError{Component: "FaultSourceSet", Reason: "weight outside [0, 1]"}
	}
	if len(b.Sources) == 0 {
		return nil, ErrEmptySourceSet
	}

	sources := make([]*FaultSource, 0, len(b.Sources))
	for _, sb := range b.Sources {
		fs, err := sb.Build()
		if err != nil {
			return nil, err
		}
		scaleRuptureRates(fs.ruptures, b.Weight)
		sources = append(sources, fs)
	}

	return &FaultSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: b.Weight, sourceType: FAULT, gmmSet: b.GmmSet, msr: b.Msr},
		sources:       sources,
	}, nil
}

// InterfaceSourceSet groups InterfaceSources; same filter and weighting
// contract as FaultSourceSet.
type InterfaceSourceSet struct {
	baseSourceSet
	sources []*InterfaceSource
}

func (s *InterfaceSourceSet) Sources() []Source {
	return lo.Map(s.sources, func(is *InterfaceSource, _ int) Source { return is })
}

func (s *InterfaceSourceSet) DistanceFilter(loc Location, cutoff float64) []Source {
	passing := lo.Filter(s.sources, func(is *InterfaceSource, _ int) bool {
		return is.DistanceFilterPasses(loc, cutoff)
	})
	return lo.Map(passing, func(is *InterfaceSource, _ int) Source { return is })
}

type InterfaceSourceSetBuilder struct {
	Name    string
	Weight  float64
	Msr     MagScalingType
	GmmSet  *GmmSet
	Sources []*InterfaceSourceBuilder

	built bool
}

func (b *InterfaceSourceSetBuilder) Build() (*InterfaceSourceSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if b.Weight < 0 || b.Weight > 1 {
		return nil, &ValidationError{Component: "InterfaceSourceSet", Reason: "weight outside [0, 1]"}
	}
	if len(b.Sources) == 0 {
		return nil, ErrEmptySourceSet
	}

	sources := make([]*InterfaceSource, 0, len(b.Sources))
	for _, sb := range b.Sources {
		is, err := sb.Build()
		if err != nil {
			return nil, err
		}
		scaleRuptureRates(is.ruptures, b.Weight)
		sources = append(sources, is)
	}

	return &InterfaceSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: b.Weight, sourceType: INTERFACE, gmmSet: b.GmmSet, msr: b.Msr},
		sources:       sources,
	}, nil
}

// ClusterSourceSet groups ClusterSources. Its filter passes a cluster if
// any of its wrapped faults passes the fault filter.
type ClusterSourceSet struct {
	baseSourceSet
	sources []*ClusterSource
}

func (s *ClusterSourceSet) Sources() []Source {
	return lo.Map(s.sources, func(cs *ClusterSource, _ int) Source { return cs })
}

func (s *ClusterSourceSet) DistanceFilter(loc Location, cutoff float64) []Source {
	passing := lo.Filter(s.sources, func(cs *ClusterSource, _ int) bool {
		return lo.SomeBy(cs.faultSet.sources, func(fs *FaultSource) bool {
			return fs.DistanceFilterPasses(loc, cutoff)
		})
	})
	return lo.Map(passing, func(cs *ClusterSource, _ int) Source { return cs })
}

type ClusterSourceSetBuilder struct {
	Name    string
	Weight  float64
	GmmSet  *GmmSet
	Sources []*ClusterSourceBuilder

	built bool
}

func (b *ClusterSourceSetBuilder) Build() (*ClusterSourceSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if b.Weight < 0 || b.Weight > 1 {
		return nil, &ValidationError{Component: "ClusterSourceSet", Reason: "weight outside [0, 1]"}
	}
	if len(b.Sources) == 0 {
		return nil, ErrEmptySourceSet
	}

	sources := make([]*ClusterSource, 0, len(b.Sources))
	for _, sb := range b.Sources {
		cs, err := sb.Build()
		if err != nil {
			return nil, err
		}
		cs.rate *= b.Weight
		sources = append(sources, cs)
	}

	return &ClusterSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: b.Weight, sourceType: CLUSTER, gmmSet: b.GmmSet},
		sources:       sources,
	}, nil
}

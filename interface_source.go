package erf

import (
	"errors"

	"github.com/samber/lo"
)

// InterfaceSource has the same contract as FaultSource, but its surface
// is approximated from an upper and lower trace rather than a single
// trace plus scalar dip/width. Dip and width are derived
// lazily by the surface.
type InterfaceSource struct {
	name     string
	surface  *GriddedSurface
	upper    LocationList
	lower    LocationList
	rake     float64
	ruptures []Rupture
}

func (s *InterfaceSource) Name() string             { return s.name }
func (s *InterfaceSource) Size() int                { return len(s.ruptures) }
func (s *InterfaceSource) Iterator() RuptureIterator { return newSliceIterator(s.ruptures) }

// DistanceFilterPasses tests horizontal distance from loc to any
// endpoint of either trace.
func (s *InterfaceSource) DistanceFilterPasses(loc Location, cutoff float64) bool {
	near := func(p Location) bool { return horzDistanceFast(loc, p) <= cutoff }
	ends := LocationList{s.upper[0], s.upper[len(s.upper)-1], s.lower[0], s.lower[len(s.lower)-1]}
	return lo.SomeBy(ends, near)
}

// InterfaceSourceBuilder assembles an InterfaceSource. Single-use.
type InterfaceSourceBuilder struct {
	Name        string
	UpperTrace  LocationList
	LowerTrace  LocationList
	Rake        float64
	Offset      float64
	Mfds        []IncrementalMfd
	Msr         MagScalingType
	MsrSet      bool
	AspectRatio float64
	FloatStyle  FloatStyle

	built bool
}

func (b *InterfaceSourceBuilder) Build() (*InterfaceSource, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if len(b.Mfds) == 0 {
		return nil, ErrNoMfds
	}
	if !b.MsrSet {
		return nil, ErrNoMsr
	}
	if b.Rake < -180 || b.Rake > 180 {
		return nil, ErrBadRake
	}
	if b.AspectRatio <= 0 {
		b.AspectRatio = 1.0
	}
	if b.Offset <= 0 {
		return nil, &ValidationError{Component: "InterfaceSource", Reason: "offset must be > 0"}
	}

	surface, err := NewApproxGriddedSurface(b.UpperTrace, b.LowerTrace)
	if err != nil {
		return nil, errors.Join(&ValidationError{Component: "InterfaceSource", Reason: "surface construction failed"}, err)
	}

	width := surface.Width()
	ruptures, err := generateFaultRuptures(surface, b.Rake, b.Mfds, b.Msr, b.AspectRatio, width, b.Offset, b.FloatStyle)
	if err != nil {
		return nil, err
	}
	if len(ruptures) == 0 {
		return nil, errors.Join(ErrEmptySourceSet, &ValidationError{Component: "InterfaceSource", Reason: "cumulative ruptures == 0"})
	}

	return &InterfaceSource{
		name:     b.Name,
		surface:  surface,
		upper:    b.UpperTrace,
		lower:    b.LowerTrace,
		rake:     b.Rake,
		ruptures: ruptures,
	}, nil
}

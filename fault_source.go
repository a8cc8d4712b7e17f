package erf

import (
	"errors"
	"math"
)

// FloatStyle controls how a floating rupture's down-dip window is
// placed on the parent surface.
type FloatStyle int

const (
	FULL_DOWN_DIP FloatStyle = iota
	DOWN_DIP
	CENTERED
)

// FaultSource produces one Rupture per non-floating MFD bin, and a set
// of floating sub-surface Ruptures per floating MFD bin.
// It is immutable once built.
type FaultSource struct {
	name     string
	surface  *GriddedSurface
	rake     float64
	mfds     []IncrementalMfd
	ruptures []Rupture
}

func (s *FaultSource) Name() string             { return s.name }
func (s *FaultSource) Size() int                { return len(s.ruptures) }
func (s *FaultSource) Iterator() RuptureIterator { return newSliceIterator(s.ruptures) }

// DistanceFilterPasses tests horizontal distance from loc to either
// endpoint of the surface's top-row trace.
func (s *FaultSource) DistanceFilterPasses(loc Location, cutoff float64) bool {
	top := s.surface.nodes[0]
	if len(top) == 0 {
		return false
	}
	if horzDistanceFast(loc, top[0]) <= cutoff {
		return true
	}
	return horzDistanceFast(loc, top[len(top)-1]) <= cutoff
}

// FaultSourceBuilder assembles a FaultSource. It is single-use: a second
// call to Build() fails.
type FaultSourceBuilder struct {
	Name        string
	Trace       LocationList
	Dip         float64
	Width       float64 // down-dip width, km
	Rake        float64
	Offset      float64 // grid spacing, km
	Mfds        []IncrementalMfd
	Msr         MagScalingType
	MsrSet      bool
	AspectRatio float64
	FloatStyle  FloatStyle

	built bool
}

// Build constructs the FaultSource's surface and full rupture list.
// Construction fails on an empty MFD list, a missing msr, a trace with
// fewer than 2 points, a dip outside [0,90], or zero cumulative
// ruptures.
func (b *FaultSourceBuilder) Build() (*FaultSource, error) {
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
	if len(b.Trace) < 2 {
		return nil, ErrShortTrace
	}
	if b.Dip < 0 || b.Dip > 90 {
		return nil, ErrBadDip
	}
	if b.Rake < -180 || b.Rake > 180 {
		return nil, ErrBadRake
	}
	if b.AspectRatio <= 0 {
		b.AspectRatio = 1.0
	}
	if b.Offset <= 0 {
		return nil, &ValidationError{Component: "FaultSource", Reason: "offset must be > 0"}
	}

	surface, err := NewGriddedSurface(b.Trace, b.Dip, b.Width, b.Offset)
	if err != nil {
		return nil, errors.Join(&ValidationError{Component: "FaultSource", Reason: "surface construction failed"}, err)
	}

	ruptures, err := generateFaultRuptures(surface, b.Rake, b.Mfds, b.Msr, b.AspectRatio, b.Width, b.Offset, b.FloatStyle)
	if err != nil {
		return nil, err
	}
	if len(ruptures) == 0 {
		return nil, errors.Join(ErrEmptySourceSet, &ValidationError{Component: "FaultSource", Reason: "cumulative ruptures == 0"})
	}

	return &FaultSource{
		name:     b.Name,
		surface:  surface,
		rake:     b.Rake,
		mfds:     b.Mfds,
		ruptures: ruptures,
	}, nil
}

// generateFaultRuptures expands each MFD bin into one whole-surface
// rupture, or into rate-sharing floating ruptures when the MFD floats.
func generateFaultRuptures(surface *GriddedSurface, rake float64, mfds []IncrementalMfd, msr MagScalingType, aspect, maxWidth, offset float64, style FloatStyle) ([]Rupture, error) {
	var out []Rupture

	for _, mfd := range mfds {
		for _, bin := range mfd.filteredBins() {
			if !mfd.Floats() {
				out = append(out, Rupture{Mag: bin.Mag, Rake: rake, Rate: bin.Rate, Surface: surface})
				continue
			}

			length, width := floatingDimensions(bin.Mag, msr, aspect, maxWidth, style)

			var n int
			centered := style == CENTERED
			if centered {
				n = surface.numSubsetSurfacesAlongLength(length, offset)
			} else {
				n = surface.numSubsetSurfaces(length, width, offset)
			}
			if n < 1 {
				n = 1
			}

			rate := bin.Rate / float64(n)
			for k := 0; k < n; k++ {
				sub := surface.subsetSurface(k, length, width, offset, centered)
				out = append(out, Rupture{Mag: bin.Mag, Rake: rake, Rate: rate, Surface: sub})
			}
		}
	}

	return out, nil
}

// floatingDimensions computes a floating rupture's along-strike length
// and down-dip width for magnitude m.
func floatingDimensions(m float64, msr MagScalingType, aspect, maxWidth float64, style FloatStyle) (length, width float64) {
	value, isArea := Msr(msr, m)

	if isArea {
		area := value
		w0 := math.Sqrt(area / aspect)
		w := math.Min(w0, maxWidth)
		length = area / w
	} else {
		length = value
	}

	width = math.Min(length/aspect, maxWidth)
	if style == FULL_DOWN_DIP {
		width = 2.0 * maxWidth
	}

	return length, width
}

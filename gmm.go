package erf

import "github.com/samber/lo"

// MagBand and DistBand index the 3x3 epistemic uncertainty grid.
type MagBand int

const (
	MagBandLt6 MagBand = iota
	MagBand6to7
	MagBandGe7
)

type DistBand int

const (
	DistBandLt10 DistBand = iota
	DistBand10to30
	DistBandGe30
)

// magBandFor and distBandFor classify a magnitude or distance into its
// uncertainty-grid band.
func magBandFor(m float64) MagBand {
	switch {
	case m < 6.0:
		return MagBandLt6
	case m < 7.0:
		return MagBand6to7
	default:
		return MagBandGe7
	}
}

func distBandFor(d float64) DistBand {
	switch {
	case d < 10.0:
		return DistBandLt10
	case d < 30.0:
		return DistBand10to30
	default:
		return DistBandGe30
	}
}

// GmmSet maps ground-motion model identifiers to weights, split into a
// primary (shorter distance) and an optional secondary (longer distance)
// model set whose keys must be a subset of the primary's.
type GmmSet struct {
	primary          map[string]float64
	primaryMaxDist   float64
	secondary        map[string]float64
	secondaryMaxDist float64

	hasUncertainty bool
	// uncertainty[magBand][distBand] holds the 9-element grid; a 1-element
	// declaration broadcasts the same scalar to every cell.
	uncertainty        [3][3]float64
	uncertaintyWeights [3]float64
}

// MaxDistHi returns the largest configured maxDistance across both model
// sets, the cutoff SourceSet distance filtering uses.
func (g *GmmSet) MaxDistHi() float64 {
	if g.secondary != nil && g.secondaryMaxDist > g.primaryMaxDist {
		return g.secondaryMaxDist
	}
	return g.primaryMaxDist
}

// Primary returns the primary GMM id -> weight map.
func (g *GmmSet) Primary() map[string]float64 { return g.primary }

// Secondary returns the secondary GMM id -> weight map, or nil if unset.
func (g *GmmSet) Secondary() map[string]float64 { return g.secondary }

// Uncertainty returns the epistemic uncertainty value and its branch
// weight for the grid cell a given magnitude and distance fall into, or
// ok=false if no uncertainty was configured.
func (g *GmmSet) Uncertainty(mag, dist float64) (value, weight float64, ok bool) {
	if !g.hasUncertainty {
		return 0, 0, false
	}
	mb := magBandFor(mag)
	db := distBandFor(dist)
	return g.uncertainty[mb][db], g.uncertaintyWeights[db], true
}

// GmmSetBuilder assembles a GmmSet. Single-use.
type GmmSetBuilder struct {
	Primary          map[string]float64
	PrimaryMaxDist   float64
	Secondary        map[string]float64
	SecondaryMaxDist float64

	// UncertaintyValues is either length 1 (broadcast scalar) or length 9
	// (row-major magBand x distBand).
	UncertaintyValues  []float64
	UncertaintyWeights [3]float64
	HasUncertainty     bool

	built bool
}

func (b *GmmSetBuilder) Build() (*GmmSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if len(b.Primary) == 0 {
		return nil, &ValidationError{Component: "GmmSet", Reason: "primary model set must not be empty"}
	}
	sumW := lo.Sum(lo.Values(b.Primary))
	if sumW < 1-1e-6 || sumW > 1+1e-6 {
		return nil, &ValidationError{Component: "GmmSet", Reason: "primary model weights must sum to 1"}
	}

	if b.Secondary != nil && !lo.Every(lo.Keys(b.Primary), lo.Keys(b.Secondary)) {
		return nil, &ValidationError{Component: "GmmSet", Reason: "secondary GMM keys must be a subset of primary"}
	}

	g := &GmmSet{
		primary:          b.Primary,
		primaryMaxDist:   b.PrimaryMaxDist,
		secondary:        b.Secondary,
		secondaryMaxDist: b.SecondaryMaxDist,
	}

	if b.HasUncertainty {
		sumUW := lo.Sum(b.UncertaintyWeights[:])
		if sumUW < 1-1e-6 || sumUW > 1+1e-6 {
			return nil, &ValidationError{Component: "GmmSet", Reason: "uncertainty weights must sum to 1"}
		}
		g.hasUncertainty = true
		g.uncertaintyWeights = b.UncertaintyWeights

		switch len(b.UncertaintyValues) {
		case 1:
			for mb := 0; mb < 3; mb++ {
				for db := 0; db < 3; db++ {
					g.uncertainty[mb][db] = b.UncertaintyValues[0]
				}
			}
		case 9:
			for mb := 0; mb < 3; mb++ {
				for db := 0; db < 3; db++ {
					g.uncertainty[mb][db] = b.UncertaintyValues[mb*3+db]
				}
			}
		default:
			return nil, &ValidationError{Component: "GmmSet", Reason: "uncertainty values must have length 1 or 9"}
		}
	}

	return g, nil
}

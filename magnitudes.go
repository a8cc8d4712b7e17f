package erf

import "math"

// MagScalingType identifies a named magnitude-scaling relation (MSR):
// a function from magnitude to either rupture length or rupture area.
// The registry is a closed, small lookup table rather than a
// per-relation type hierarchy.
type MagScalingType int

const (
	WC1994_LENGTH MagScalingType = iota
	WC1994_AREA
	GEOMATRIX_AREA
	CA_AREA
)

// msrKind distinguishes whether a MagScalingType yields a length (km) or
// an area (km^2).
type msrKind int

const (
	msrLength msrKind = iota
	msrArea
)

type magScalingRelation struct {
	kind msrKind
	// log10(value) = a + b*M
	a, b float64
}

var magScalingRelations = map[MagScalingType]magScalingRelation{
	WC1994_LENGTH:  {kind: msrLength, a: -2.44, b: 0.59},
	WC1994_AREA:    {kind: msrArea, a: -3.49, b: 0.91},
	GEOMATRIX_AREA: {kind: msrArea, a: -3.45, b: 0.92},
	CA_AREA:        {kind: msrArea, a: -3.42, b: 0.90},
}

// Msr evaluates the magnitude-scaling relation for magnitude m, and
// reports whether the returned value is a length (km) or an area
// (km^2). Unknown MagScalingType values evaluate to zero with
// isArea=false; callers validate MagScalingType at builder time.
func Msr(t MagScalingType, m float64) (value float64, isArea bool) {
	rel, ok := magScalingRelations[t]
	if !ok {
		return 0, false
	}
	v := math.Pow(10.0, rel.a+rel.b*m)
	return v, rel.kind == msrArea
}

// momentOfMagnitude returns the scalar seismic moment (in dyne-cm,
// following the Hanks & Kanamori convention used throughout the legacy
// Java ERF cores this design descends from) for a given moment
// magnitude: Mo = 10^(1.5*M + 9.05).
func momentOfMagnitude(m float64) float64 {
	return math.Pow(10.0, 1.5*m+9.05)
}

package erf

import "math"

// nshmp08DistCorrTable holds a coarse magnitude/distance grid of point-
// source distance corrections in the style of the NSHMP-2008 national
// seismic hazard map tables: corrections shrink towards 1 as distance
// grows and move further from 1 as magnitude grows, capturing that a point under-represents a large
// rupture's true closest distance at short range. Rows are magnitude
// (5.0..8.0 step 0.5), columns are distance in km
// (1, 3, 5, 10, 20, 30, 50, 100).
var nshmp08DistBins = []float64{1, 3, 5, 10, 20, 30, 50, 100}
var nshmp08MagBins = []float64{5.0, 5.5, 6.0, 6.5, 7.0, 7.5, 8.0}
var nshmp08DistCorrTable = [][]float64{
	{1.30, 1.22, 1.16, 1.09, 1.04, 1.02, 1.01, 1.00},
	{1.45, 1.33, 1.24, 1.13, 1.06, 1.03, 1.01, 1.00},
	{1.65, 1.47, 1.33, 1.18, 1.08, 1.04, 1.02, 1.00},
	{1.90, 1.64, 1.44, 1.23, 1.11, 1.05, 1.02, 1.01},
	{2.20, 1.85, 1.58, 1.30, 1.14, 1.07, 1.03, 1.01},
	{2.55, 2.10, 1.74, 1.38, 1.18, 1.09, 1.04, 1.01},
	{2.95, 2.38, 1.93, 1.47, 1.22, 1.11, 1.05, 1.02},
}

// DistCorrKind selects the point-source distance correction lookup
// family. Only NSHMP08 is implemented.
type DistCorrKind int

const (
	NSHMP08 DistCorrKind = iota
)

// pointSourceDistanceCorrection returns c(r, m) for the given kind,
// bilinearly interpolated over the coarse table above and clamped to the
// table's magnitude/distance range. The table is approximate rather
// than the published NSHMP-2008 coefficients.
func pointSourceDistanceCorrection(r, m float64, kind DistCorrKind) float64 {
	mi0, mi1, mf := interpIndex(nshmp08MagBins, m)
	di0, di1, df := interpIndex(nshmp08DistBins, r)

	v00 := nshmp08DistCorrTable[mi0][di0]
	v01 := nshmp08DistCorrTable[mi0][di1]
	v10 := nshmp08DistCorrTable[mi1][di0]
	v11 := nshmp08DistCorrTable[mi1][di1]

	v0 := v00 + (v01-v00)*df
	v1 := v10 + (v11-v10)*df
	return v0 + (v1-v0)*mf
}

// interpIndex finds the bracketing indices in a sorted slice and the
// fractional position of x between them, clamping x to the slice's
// range.
func interpIndex(bins []float64, x float64) (lo, hi int, frac float64) {
	if x <= bins[0] {
		return 0, 0, 0
	}
	if x >= bins[len(bins)-1] {
		last := len(bins) - 1
		return last, last, 0
	}
	for i := 0; i < len(bins)-1; i++ {
		if x >= bins[i] && x <= bins[i+1] {
			frac = (x - bins[i]) / (bins[i+1] - bins[i])
			return i, i + 1, frac
		}
	}
	last := len(bins) - 1
	return last, last, 0
}

// finiteSurfaceDistances computes the (rJB, rRup, rX) triple for a
// point-expanded finite surface: rJB is the horizontal distance from the site to the
// point location, width/depth describe the rectangular surface, dip is
// in degrees, and hangingWall selects the footwall or hanging-wall
// branch of the formula.
func finiteSurfaceDistances(horzDist, zTop, zBot, widthKm, dipDeg float64, hangingWall bool) Distances {
	dipRad := dipDeg * deg2rad
	rJB := horzDist

	if !hangingWall {
		rRup := math.Hypot(rJB, zTop)
		return Distances{RJB: rJB, RRup: rRup, RX: -rJB}
	}

	wHoriz := widthKm * math.Cos(dipRad)
	rX := rJB + wHoriz
	rCut := zBot * math.Tan(dipRad)

	var rRup float64
	if rJB > rCut {
		rRup = math.Hypot(rJB, zBot)
	} else {
		rRup0 := math.Min(math.Hypot(wHoriz, zTop), zBot*math.Cos(dipRad))
		rRupC := zBot / math.Cos(dipRad)
		if rCut > 0 {
			rRup = rRup0 + (rRupC-rRup0)*rJB/rCut
		} else {
			rRup = rRup0
		}
	}

	return Distances{RJB: rJB, RRup: rRup, RX: rX}
}

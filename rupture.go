package erf

// Distances is the site distance triple computed against a rupture
// surface: closest horizontal distance to the surface projection (rJB),
// closest 3-D distance to the rupture plane (rRup), and the signed
// across-strike distance, positive on the hanging wall (rX).
type Distances struct {
	RJB  float64
	RRup float64
	RX   float64
}

// Rupture is the immutable (mag, rake, rate, surface, [hypocenter])
// bundle. Rate is an annual rate of Poisson occurrence; the conversion
// to an exceedance probability is deferred to the hazard layer.
type Rupture struct {
	Mag        float64
	Rake       float64
	Rate       float64
	Surface    *GriddedSurface
	Hypocenter *Location
}

// DistancesTo returns the (rJB, rRup, rX) triple from this rupture's
// surface to loc.
func (r Rupture) DistancesTo(loc Location) Distances {
	return r.Surface.DistancesTo(loc)
}

package erf

import "math"

// earthRadiusKm is the mean spherical earth radius used for the fast,
// small-angle horizontal distance approximations (horzDistanceFast).
// Hazard filtering and rJB/rRup/rX only need a cheap, self-consistent
// horizontal distance, so spherical formulas are used throughout rather
// than an ellipsoidal expansion.
const earthRadiusKm = 6371.0088

const deg2rad = math.Pi / 180.0

// Location is an immutable (lat, lon, depth) triple in decimal degrees
// and kilometres.
type Location struct {
	Lat   float64
	Lon   float64
	Depth float64
}

// NewLocation constructs a Location. Depth is in km below the surface.
func NewLocation(lat, lon, depth float64) Location {
	return Location{Lat: lat, Lon: lon, Depth: depth}
}

// LocationList is an ordered sequence of Locations, typically a fault
// trace.
type LocationList []Location

// LocationVector is a thin alias used where a list of Locations stands
// for a directional sequence (e.g. a subset-surface centerline) rather
// than a trace; kept distinct for readability at call sites.
type LocationVector = LocationList

// MonotonicDepth reports whether depths along the trace are
// non-decreasing, as required of a fault upper/lower edge trace.
func (ll LocationList) MonotonicDepth() bool {
	for i := 1; i < len(ll); i++ {
		if ll[i].Depth < ll[i-1].Depth {
			return false
		}
	}
	return true
}

// horzDistanceFast returns an approximate great-circle horizontal
// distance in km between two Locations using the equirectangular
// approximation, which is adequate for the cheap distance-filter
// pre-pass. It is deliberately not the exact geodesic used for final
// rJB/rRup computation on a gridded surface (see surface.go): the
// pre-pass only culls, the exact calculation runs later at rupture
// level.
func horzDistanceFast(a, b Location) float64 {
	latMid := deg2rad * (a.Lat + b.Lat) / 2.0
	dLat := deg2rad * (b.Lat - a.Lat)
	dLon := deg2rad * (b.Lon - a.Lon) * math.Cos(latMid)
	x := dLon * earthRadiusKm
	y := dLat * earthRadiusKm
	return math.Hypot(x, y)
}

// horzDistanceExact returns the great-circle horizontal distance in km
// between two Locations using the haversine formula. Used where surface
// distance calculations need better accuracy than the fast filter.
func horzDistanceExact(a, b Location) float64 {
	lat1 := deg2rad * a.Lat
	lat2 := deg2rad * b.Lat
	dLat := deg2rad * (b.Lat - a.Lat)
	dLon := deg2rad * (b.Lon - a.Lon)

	sinDLat := math.Sin(dLat / 2.0)
	sinDLon := math.Sin(dLon / 2.0)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	c := 2.0 * math.Atan2(math.Sqrt(h), math.Sqrt(1.0-h))
	return earthRadiusKm * c
}

// destinationPoint projects a new Location from an origin, given a
// bearing in degrees (clockwise from north) and a distance in km. Used
// by the gridded-surface discretization (surface.go) to walk a trace
// along strike, and by PointSource's finite-surface construction
// (point_source.go) to place corners relative to the point epicenter.
func destinationPoint(origin Location, bearingDeg, distKm float64) Location {
	angDist := distKm / earthRadiusKm
	bearing := deg2rad * bearingDeg
	lat1 := deg2rad * origin.Lat
	lon1 := deg2rad * origin.Lon

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angDist) + math.Cos(lat1)*math.Sin(angDist)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angDist)*math.Cos(lat1),
		math.Cos(angDist)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Location{
		Lat:   lat2 / deg2rad,
		Lon:   lon2 / deg2rad,
		Depth: origin.Depth,
	}
}

// bearingDeg returns the initial bearing in degrees (clockwise from
// north) from a to b.
func bearingDeg(a, b Location) float64 {
	lat1 := deg2rad * a.Lat
	lat2 := deg2rad * b.Lat
	dLon := deg2rad * (b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	brg := math.Atan2(y, x) / deg2rad
	if brg < 0 {
		brg += 360.0
	}
	return brg
}

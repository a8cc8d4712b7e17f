package erf

import "math"

// GriddedSurface is a regularly discretized rupture surface: rows run
// down-dip, columns run along strike. It backs FaultSource and, after
// lazy dip/width derivation, InterfaceSource.
type GriddedSurface struct {
	nodes  [][]Location // nodes[row][col]
	dip    float64      // degrees
	offset float64      // km, grid spacing used to build this surface
	strike float64      // degrees, bearing of column 0 -> column N
}

// NewGriddedSurface discretizes a fault surface from an upper trace, a
// dip in degrees, and a down-dip width in km, at a grid spacing of
// offset km. The densified upper trace
// supplies row 0; subsequent rows are projected down-dip.
func NewGriddedSurface(trace LocationList, dip, width, offset float64) (*GriddedSurface, error) {
	if len(trace) < 2 {
		return nil, ErrShortTrace
	}
	if dip < 0 || dip > 90 {
		return nil, ErrBadDip
	}
	if offset <= 0 {
		return nil, &ValidationError{Component: "GriddedSurface", Reason: "offset must be > 0"}
	}

	cols := densifyTrace(trace, offset)
	nRows := numPositions(width, 0, offset)
	if nRows < 1 {
		nRows = 1
	}

	dipRad := deg2rad * dip
	downDipAz := perpendicularBearing(trace)

	nodes := make([][]Location, nRows)
	nodes[0] = cols
	for row := 1; row < nRows; row++ {
		rowNodes := make([]Location, len(cols))
		downDipDist := float64(row) * offset
		horiz := downDipDist * math.Cos(dipRad)
		vert := downDipDist * math.Sin(dipRad)
		for c, n := range cols {
			p := destinationPoint(n, downDipAz, horiz)
			p.Depth = n.Depth + vert
			rowNodes[c] = p
		}
		nodes[row] = rowNodes
	}

	return &GriddedSurface{nodes: nodes, dip: dip, offset: offset, strike: bearingDeg(trace[0], trace[len(trace)-1])}, nil
}

// NewApproxGriddedSurface builds a surface approximation from an upper
// and lower trace of identical length.
// Dip and width are derived lazily from the vertical/horizontal offset
// between the first upper/lower node pair.
func NewApproxGriddedSurface(upper, lower LocationList) (*GriddedSurface, error) {
	if len(upper) < 2 || len(lower) < 2 {
		return nil, ErrShortTrace
	}
	if len(upper) != len(lower) {
		return nil, &ValidationError{Component: "ApproxGriddedSurface", Reason: "upper and lower traces must have identical length"}
	}

	nodes := [][]Location{append(LocationList(nil), upper...), append(LocationList(nil), lower...)}

	horiz := horzDistanceExact(upper[0], lower[0])
	vert := lower[0].Depth - upper[0].Depth
	dip := 90.0
	if horiz > 0 {
		dip = math.Atan2(vert, horiz) / deg2rad
	}

	return &GriddedSurface{
		nodes:  nodes,
		dip:    dip,
		offset: horiz, // only used as a nominal row spacing for an approx surface
		strike: bearingDeg(upper[0], upper[len(upper)-1]),
	}, nil
}

// Dip returns the surface dip in degrees.
func (s *GriddedSurface) Dip() float64 { return s.dip }

// Width returns the down-dip width in km, derived from the depth and
// horizontal offset between the shallowest and deepest rows.
func (s *GriddedSurface) Width() float64 {
	if len(s.nodes) < 2 {
		return 0
	}
	top := s.nodes[0][0]
	bot := s.nodes[len(s.nodes)-1][0]
	horiz := horzDistanceExact(top, bot)
	vert := bot.Depth - top.Depth
	return math.Hypot(horiz, vert)
}

// TopDepth returns the depth of the shallowest row.
func (s *GriddedSurface) TopDepth() float64 { return s.nodes[0][0].Depth }

// BottomDepth returns the depth of the deepest row.
func (s *GriddedSurface) BottomDepth() float64 { return s.nodes[len(s.nodes)-1][0].Depth }

// NumRows and NumCols report the grid dimensions.
func (s *GriddedSurface) NumRows() int { return len(s.nodes) }
func (s *GriddedSurface) NumCols() int {
	if len(s.nodes) == 0 {
		return 0
	}
	return len(s.nodes[0])
}

// Centroid returns the arithmetic mean of all grid nodes, used by the
// indexed fault engine's section-centroid distance pre-pass.
func (s *GriddedSurface) Centroid() Location {
	var lat, lon, depth float64
	n := 0
	for _, row := range s.nodes {
		for _, node := range row {
			lat += node.Lat
			lon += node.Lon
			depth += node.Depth
			n++
		}
	}
	if n == 0 {
		return Location{}
	}
	return Location{Lat: lat / float64(n), Lon: lon / float64(n), Depth: depth / float64(n)}
}

// DistancesTo computes (rJB, rRup, rX) against every grid node and
// returns the closest rJB/rRup observed, plus a signed rX derived from
// the surface's strike. This discretized nearest-
// node approach keeps the distance math on the same grid the surface
// was discretized on.
func (s *GriddedSurface) DistancesTo(loc Location) Distances {
	minJB := math.Inf(1)
	minRup := math.Inf(1)

	for _, row := range s.nodes {
		for _, node := range row {
			horiz := horzDistanceExact(loc, node)
			if horiz < minJB {
				minJB = horiz
			}
			vert := node.Depth - loc.Depth
			rup := math.Hypot(horiz, vert)
			if rup < minRup {
				minRup = rup
			}
		}
	}

	top := s.nodes[0][0]
	brg := deg2rad * bearingDeg(top, loc)
	strikeRad := deg2rad * s.strike
	d := horzDistanceExact(top, loc)
	rx := d * math.Sin(brg-strikeRad)

	return Distances{RJB: minJB, RRup: minRup, RX: rx}
}

// numSubsetSurfaces returns the count of floating positions when both
// along-strike length L and down-dip width W are free to slide
// (non-centered floating styles).
func (s *GriddedSurface) numSubsetSurfaces(lengthKm, widthKm, offsetKm float64) int {
	alongExtent := float64(s.NumCols()-1) * s.offset
	downDipExtent := float64(s.NumRows()-1) * offsetKm
	if s.NumRows() == 1 {
		downDipExtent = 0
	}
	return numPositions(alongExtent, lengthKm, offsetKm) * numPositions(downDipExtent, widthKm, offsetKm)
}

// numSubsetSurfacesAlongLength returns the count of floating positions
// when only the along-strike length L slides and the down-dip window is
// held centered.
func (s *GriddedSurface) numSubsetSurfacesAlongLength(lengthKm, offsetKm float64) int {
	alongExtent := float64(s.NumCols()-1) * s.offset
	return numPositions(alongExtent, lengthKm, offsetKm)
}

// numPositions returns how many windows of size window fit along an
// axis of length extent at spacing offset, at least 1. Uses a ceiling
// division: a 20 km extent, 3 km window and 1 km offset yields 18
// positions.
func numPositions(extent, window, offset float64) int {
	if offset <= 0 {
		return 1
	}
	if window >= extent || extent <= 0 {
		return 1
	}
	n := int(math.Ceil((extent-window)/offset)) + 1
	if n < 1 {
		n = 1
	}
	return n
}

// subsetSurface extracts the k-th floating subset surface of size
// (lengthKm along strike, widthKm down dip) at grid spacing offsetKm.
// When centered is true, the down-dip window is always centered on the
// full down-dip extent and k indexes only the along-strike position.
func (s *GriddedSurface) subsetSurface(k int, lengthKm, widthKm, offsetKm float64, centered bool) *GriddedSurface {
	nColsWindow := colsForLength(lengthKm, s.offset, s.NumCols())
	nColsTotal := numPositions(float64(s.NumCols()-1)*s.offset, lengthKm, offsetKm)

	var colStart, rowStart, nRowsWindow int

	if centered {
		colStart = k
		nRowsWindow = s.NumRows()
		rowStart = 0
	} else {
		nRowsTotal := numPositions(float64(s.NumRows()-1)*offsetKm, widthKm, offsetKm)
		if nRowsTotal < 1 {
			nRowsTotal = 1
		}
		rowIdx := k / nColsTotal
		colIdx := k % nColsTotal
		colStart = colIdx
		rowStart = rowIdx
		nRowsWindow = rowsForWidth(widthKm, offsetKm, s.NumRows())
	}

	colEnd := colStart + nColsWindow
	if colEnd > s.NumCols() {
		colEnd = s.NumCols()
	}
	rowEnd := rowStart + nRowsWindow
	if rowEnd > s.NumRows() {
		rowEnd = s.NumRows()
	}

	nodes := make([][]Location, 0, rowEnd-rowStart)
	for r := rowStart; r < rowEnd; r++ {
		nodes = append(nodes, append(LocationList(nil), s.nodes[r][colStart:colEnd]...))
	}

	return &GriddedSurface{nodes: nodes, dip: s.dip, offset: s.offset, strike: s.strike}
}

func colsForLength(lengthKm, offset float64, maxCols int) int {
	if offset <= 0 {
		return maxCols
	}
	n := int(math.Round(lengthKm/offset)) + 1
	if n < 1 {
		n = 1
	}
	if n > maxCols {
		n = maxCols
	}
	return n
}

func rowsForWidth(widthKm, offset float64, maxRows int) int {
	if offset <= 0 {
		return maxRows
	}
	n := int(math.Round(widthKm/offset)) + 1
	if n < 1 {
		n = 1
	}
	if n > maxRows {
		n = maxRows
	}
	return n
}

// densifyTrace discretizes a LocationList at approximately offset km
// spacing, used to build row 0 (the top edge) of a gridded surface.
func densifyTrace(trace LocationList, offset float64) []Location {
	if len(trace) < 2 {
		return append(LocationList(nil), trace...)
	}

	out := []Location{trace[0]}
	for i := 1; i < len(trace); i++ {
		segStart := trace[i-1]
		segEnd := trace[i]
		segLen := horzDistanceExact(segStart, segEnd)
		if segLen == 0 {
			continue
		}
		brg := bearingDeg(segStart, segEnd)
		d := offset
		for d < segLen-1e-9 {
			out = append(out, destinationPoint(segStart, brg, d))
			d += offset
		}
		out = append(out, segEnd)
	}
	return out
}

// perpendicularBearing returns the down-dip azimuth: strike + 90
// degrees, the direction a dipping fault projects down-dip nodes.
func perpendicularBearing(trace LocationList) float64 {
	strike := bearingDeg(trace[0], trace[len(trace)-1])
	return math.Mod(strike+90.0, 360.0)
}

package erf

import "math"

// seismogenicDepthKm is the assumed bottom of the seismogenic zone used
// by the point-source width formula.
const seismogenicDepthKm = 14.0

// aspectRatioPointSource is the fixed length/width aspect ratio used by
// the point-source width formula.
const aspectRatioPointSource = 1.5

// FocalMech names the three mechanism representations a grid node's
// seismicity is distributed across.
type FocalMech int

const (
	MechSS FocalMech = iota
	MechREV
	MechNOR
)

// FocalMechWeights gives a grid node's weight on each mechanism,
// summing to 1.
type FocalMechWeights struct {
	SS  float64
	REV float64
	NOR float64
}

func (w FocalMechWeights) weight(m FocalMech) float64 {
	switch m {
	case MechSS:
		return w.SS
	case MechREV:
		return w.REV
	default:
		return w.NOR
	}
}

// mechGeometry gives the conventional dip and rake (degrees) associated
// with a focal mechanism kind, the standard NSHMP assignment
// (strike-slip vertical, reverse and normal at characteristic dips)
// carried for this family.
func mechGeometry(m FocalMech) (dipDeg, rakeDeg float64) {
	switch m {
	case MechSS:
		return 90.0, 0.0
	case MechREV:
		return 40.0, 90.0
	default:
		return 50.0, -90.0
	}
}

// magDepthBin is one flattened (magnitude-bin-index, depth, weight)
// entry of a grid node's mag-depth lookup table.
type magDepthBin struct {
	MagIdx int
	Depth  float64
	Weight float64
}

// MagDepthEntry is one raw `[m1 :: [d1:w1, d2:w2]]` group of the parsed
// magDepthMap attribute.
type MagDepthEntry struct {
	MagCutoff float64
	Depths    []DepthWeight
}

// DepthWeight pairs a seismogenic top depth with its probability weight.
type DepthWeight struct {
	Depth  float64
	Weight float64
}

// flattenMagDepth builds a node's magDepthBin table from its MFD and
// the set's magDepthMap. Cutoffs are strict upper bounds: a bin's magnitude uses the first entry (in
// ascending cutoff order) whose cutoff is strictly greater than it.
func flattenMagDepth(mfd IncrementalMfd, entries []MagDepthEntry) []magDepthBin {
	var out []magDepthBin
	for i := 0; i < mfd.MagCount(); i++ {
		m := mfd.Mag(i)
		for _, e := range entries {
			if m < e.MagCutoff {
				for _, dw := range e.Depths {
					out = append(out, magDepthBin{MagIdx: i, Depth: dw.Depth, Weight: dw.Weight})
				}
				break
			}
		}
	}
	return out
}

// PointVariant selects among the three point-source expansion styles.
type PointVariant int

const (
	POINT PointVariant = iota
	FINITE
	FIXED_STRIKE
)

// pointEngine is the shared index/rate/geometry arithmetic behind all
// three PointSource variants. Each exported variant type wraps
// one engine with its own Iterator/Get surface-construction behavior.
type pointEngine struct {
	loc         Location
	magDepth    []magDepthBin
	mechs       FocalMechWeights
	mfd         IncrementalMfd
	msr         MagScalingType
	variant     PointVariant
	fixedStrike float64
	offset      float64

	ssCount, revCount, norCount int
	fwIdxLo, fwIdxHi            int
}

func newPointEngine(loc Location, mfd IncrementalMfd, magDepth []magDepthBin, mechs FocalMechWeights, msr MagScalingType, variant PointVariant, fixedStrike, offset float64) *pointEngine {
	magDepthCount := len(magDepth)
	dup := 1
	if variant != POINT {
		dup = 2
	}

	e := &pointEngine{
		loc: loc, magDepth: magDepth, mechs: mechs, mfd: mfd, msr: msr,
		variant: variant, fixedStrike: fixedStrike, offset: offset,
	}

	e.ssCount = gate(mechs.SS) * magDepthCount
	e.revCount = gate(mechs.REV) * magDepthCount * dup
	e.norCount = gate(mechs.NOR) * magDepthCount * dup
	e.fwIdxLo = e.ssCount + e.revCount/2
	e.fwIdxHi = e.ssCount + e.revCount + e.norCount/2

	return e
}

// gate reports whether a mechanism participates at all: any positive
// weight contributes its full magDepthCount of entries.
func gate(wt float64) int {
	if wt > 0 {
		return 1
	}
	return 0
}

func (e *pointEngine) size() int {
	return e.ssCount + e.revCount + e.norCount
}

// isOnFootwall reports whether rupture index i falls in a footwall
// block: all of SS, the first half of REV, or the first half of NOR.
func (e *pointEngine) isOnFootwall(i int) bool {
	if i < e.fwIdxLo {
		return true
	}
	j := i - e.ssCount
	return e.revCount <= j && j < e.revCount+e.norCount/2
}

// entryAt decodes rupture index i into its mechanism, mag-depth bin, and
// hanging-wall flag.
func (e *pointEngine) entryAt(i int) (mech FocalMech, bin magDepthBin, hangingWall bool) {
	n := len(e.magDepth)
	switch {
	case i < e.ssCount:
		return MechSS, e.magDepth[i%n], false
	case i < e.ssCount+e.revCount:
		return MechREV, e.magDepth[(i-e.ssCount)%n], !e.isOnFootwall(i)
	default:
		return MechNOR, e.magDepth[(i-e.ssCount-e.revCount)%n], !e.isOnFootwall(i)
	}
}

// rateAt computes rate(i) = mfd.rate(magIdx) * zTopWeight * mechWeight.
func (e *pointEngine) rateAt(i int) float64 {
	mech, bin, _ := e.entryAt(i)
	mechWeight := e.mechs.weight(mech)
	if e.variant != POINT && mech != MechSS {
		mechWeight *= 0.5
	}
	return e.mfd.Rate(bin.MagIdx) * bin.Weight * mechWeight
}

// widthAt computes the down-dip width for magnitude m at depth z and
// dip dipDeg, capped by the remaining seismogenic thickness.
func (e *pointEngine) widthAt(m, z, dipDeg float64) float64 {
	value, isArea := Msr(e.msr, m)
	var length float64
	if isArea {
		length = math.Sqrt(value * aspectRatioPointSource)
	} else {
		length = value
	}
	wAspect := length / aspectRatioPointSource
	dipRad := dipDeg * deg2rad
	wDD := math.Inf(1)
	if math.Sin(dipRad) > 1e-9 {
		wDD = (seismogenicDepthKm - z) / math.Sin(dipRad)
	}
	return math.Min(wAspect, wDD)
}

// buildRupture materializes rupture i as a full Rupture, allocating a
// fresh surface (used by both Get(idx) and the reused-iterator path,
// which copies the result into its owned buffer).
func (e *pointEngine) buildRupture(i int) Rupture {
	mech, bin, hangingWall := e.entryAt(i)
	dipDeg, rakeDeg := mechGeometry(mech)
	rate := e.rateAt(i)
	mag := e.mfd.Mag(bin.MagIdx)

	if e.variant == POINT {
		return Rupture{Mag: mag, Rake: rakeDeg, Rate: rate, Surface: nil}
	}

	width := e.widthAt(mag, bin.Depth, dipDeg)
	value, isArea := Msr(e.msr, mag)
	length := value
	if isArea {
		length = value / width
	}

	strike := 0.0
	if e.variant == FIXED_STRIKE {
		strike = e.fixedStrike
	}
	if hangingWall {
		strike = math.Mod(strike+180.0, 360.0)
	}

	trace := pointToTrace(e.loc, strike, length)
	surface, err := NewGriddedSurface(trace, dipDeg, width, e.offset)
	if err == nil {
		// NewGriddedSurface seeds row 0 at the trace points' depth (the
		// node's own depth); shift every node so row 0 sits at the bin's
		// top depth.
		shift := bin.Depth - e.loc.Depth
		for r := range surface.nodes {
			for c := range surface.nodes[r] {
				surface.nodes[r][c].Depth += shift
			}
		}
	} else {
		surface = nil
	}

	return Rupture{Mag: mag, Rake: rakeDeg, Rate: rate, Surface: surface}
}

// distancesAt computes the (rJB, rRup, rX) triple for rupture i relative
// to loc: the corrected-epicentral branch for POINT, the finite-surface
// branch otherwise.
func (e *pointEngine) distancesAt(i int, site Location) Distances {
	mech, bin, hangingWall := e.entryAt(i)
	dipDeg, _ := mechGeometry(mech)
	mag := e.mfd.Mag(bin.MagIdx)
	horiz := horzDistanceFast(site, e.loc)

	if e.variant == POINT {
		c := pointSourceDistanceCorrection(horiz, mag, NSHMP08)
		d := horiz * c
		return Distances{RJB: d, RRup: d, RX: d}
	}

	width := e.widthAt(mag, bin.Depth, dipDeg)
	dipRad := dipDeg * deg2rad
	zTop := bin.Depth
	zBot := zTop + width*math.Sin(dipRad)
	return finiteSurfaceDistances(horiz, zTop, zBot, width, dipDeg, hangingWall)
}

// pointToTrace constructs a 2-point trace of the given length centered
// on loc, along bearing strikeDeg, used to seed a rectangular finite
// surface for the FINITE/FIXED_STRIKE variants.
func pointToTrace(loc Location, strikeDeg, lengthKm float64) LocationList {
	half := lengthKm / 2
	back := math.Mod(strikeDeg+180.0, 360.0)
	p0 := destinationPoint(loc, back, half)
	p1 := destinationPoint(loc, strikeDeg, half)
	return LocationList{p0, p1}
}

// pointSourceIterator is the reused-mutable iterator shared by all three
// PointSource variants. It is not safe for concurrent use; obtain one
// per goroutine.
type pointSourceIterator struct {
	engine *pointEngine
	idx    int
	buf    Rupture
}

func (it *pointSourceIterator) Next() (*Rupture, bool) {
	for it.idx < it.engine.size() {
		i := it.idx
		it.idx++
		r := it.engine.buildRupture(i)
		if r.Rate <= 0 {
			continue
		}
		it.buf = r
		return &it.buf, true
	}
	return nil, false
}

// PointSource is the POINT variant: distance metrics degenerate to a
// corrected horizontal distance; no surface is materialized.
type PointSource struct {
	name   string
	engine *pointEngine
}

func (s *PointSource) Name() string             { return s.name }
func (s *PointSource) Size() int                { return s.engine.size() }
func (s *PointSource) Iterator() RuptureIterator { return &pointSourceIterator{engine: s.engine} }

// Get performs thread-safe, allocating random access to rupture idx;
// slower than iterating.
func (s *PointSource) Get(idx int) Rupture { return s.engine.buildRupture(idx) }

// DistancesTo computes the point-source-corrected distance triple for
// rupture idx against site.
func (s *PointSource) DistancesTo(idx int, site Location) Distances {
	return s.engine.distancesAt(idx, site)
}

// PointSourceFinite is the FINITE variant: each magnitude is realized as
// a rectangular finite surface, duplicated into footwall/hanging-wall
// representations for non-strike-slip mechanisms.
type PointSourceFinite struct {
	name   string
	engine *pointEngine
}

func (s *PointSourceFinite) Name() string             { return s.name }
func (s *PointSourceFinite) Size() int                { return s.engine.size() }
func (s *PointSourceFinite) Iterator() RuptureIterator { return &pointSourceIterator{engine: s.engine} }
func (s *PointSourceFinite) Get(idx int) Rupture       { return s.engine.buildRupture(idx) }
func (s *PointSourceFinite) DistancesTo(idx int, site Location) Distances {
	return s.engine.distancesAt(idx, site)
}

// PointSourceFixedStrike is the FIXED_STRIKE variant: as FINITE, but both
// footwall/hanging-wall representations are placed on opposite sides of
// the point along an explicit strike supplied with the grid set.
type PointSourceFixedStrike struct {
	name   string
	engine *pointEngine
}

func (s *PointSourceFixedStrike) Name() string { return s.name }
func (s *PointSourceFixedStrike) Size() int    { return s.engine.size() }
func (s *PointSourceFixedStrike) Iterator() RuptureIterator {
	return &pointSourceIterator{engine: s.engine}
}
func (s *PointSourceFixedStrike) Get(idx int) Rupture { return s.engine.buildRupture(idx) }
func (s *PointSourceFixedStrike) DistancesTo(idx int, site Location) Distances {
	return s.engine.distancesAt(idx, site)
}

// GridNode is one node of a GridSourceSet: a location with its own MFD
// and an optional per-node focalMechMap override.
type GridNode struct {
	Name  string
	Loc   Location
	Mfd   IncrementalMfd
	Mechs *FocalMechWeights // nil: use the set-level default
}

// GridSourceSet groups PointSource-family sources sharing a magDepthMap,
// a default focalMechMap, a MagScalingType, and (for FIXED_STRIKE) a
// strike angle.
type GridSourceSet struct {
	baseSourceSet

	variant      PointVariant
	defaultMechs FocalMechWeights
	magDepthMap  []MagDepthEntry
	fixedStrike  float64
	offset       float64
	nodes        []GridNode
	sources      []Source
}

func (s *GridSourceSet) Sources() []Source { return s.sources }

// DistanceFilter implements the Grid/Slab per-point filter.
func (s *GridSourceSet) DistanceFilter(loc Location, cutoff float64) []Source {
	var out []Source
	for i, node := range s.nodes {
		if horzDistanceFast(loc, node.Loc) <= cutoff {
			out = append(out, s.sources[i])
		}
	}
	return out
}

// GridSourceSetBuilder assembles a GridSourceSet. Single-use.
type GridSourceSetBuilder struct {
	Name         string
	Weight       float64
	Msr          MagScalingType
	GmmSet       *GmmSet
	Variant      PointVariant
	DefaultMechs FocalMechWeights
	MagDepthMap  []MagDepthEntry
	FixedStrike  float64
	Offset       float64
	Nodes        []GridNode

	built bool
}

func (b *GridSourceSetBuilder) Build() (*GridSourceSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if b.Weight < 0 || b.Weight > 1 {
		return nil, &ValidationError{Component: "GridSourceSet", Reason: "weight outside [0, 1]"}
	}
	if len(b.Nodes) == 0 {
		return nil, ErrEmptySourceSet
	}
	if len(b.MagDepthMap) == 0 {
		return nil, &ValidationError{Component: "GridSourceSet", Reason: "magDepthMap must not be empty"}
	}
	if b.Offset <= 0 {
		b.Offset = 1.0
	}

	set := &GridSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: b.Weight, sourceType: GRID, gmmSet: b.GmmSet, msr: b.Msr},
		variant:       b.Variant,
		defaultMechs:  b.DefaultMechs,
		magDepthMap:   b.MagDepthMap,
		fixedStrike:   b.FixedStrike,
		offset:        b.Offset,
		nodes:         b.Nodes,
	}

	for _, node := range b.Nodes {
		mechs := b.DefaultMechs
		if node.Mechs != nil {
			mechs = *node.Mechs
		}
		mfd := node.Mfd.Scale(b.Weight)
		maxMag := 0.0
		for i := 0; i < mfd.MagCount(); i++ {
			if mfd.Mag(i) > maxMag {
				maxMag = mfd.Mag(i)
			}
		}
		covered := false
		for _, e := range b.MagDepthMap {
			if maxMag < e.MagCutoff {
				covered = true
				break
			}
		}
		if !covered {
			return nil, &ValidationError{Component: "GridSourceSet", Reason: "magDepthMap missing a bin for the maximum MFD magnitude"}
		}

		bins := flattenMagDepth(mfd, b.MagDepthMap)
		engine := newPointEngine(node.Loc, mfd, bins, mechs, b.Msr, b.Variant, b.FixedStrike, b.Offset)

		var src Source
		switch b.Variant {
		case FINITE:
			src = &PointSourceFinite{name: node.Name, engine: engine}
		case FIXED_STRIKE:
			src = &PointSourceFixedStrike{name: node.Name, engine: engine}
		default:
			src = &PointSource{name: node.Name, engine: engine}
		}
		set.sources = append(set.sources, src)
	}

	return set, nil
}

// SlabSourceSet is identical in shape to GridSourceSet (point sources at
// depth representing intraslab seismicity) and shares its filter
// protocol; it is distinguished only by its
// SourceType tag.
type SlabSourceSet struct {
	GridSourceSet
}

// SlabSourceSetBuilder builds a SlabSourceSet by delegating to
// GridSourceSetBuilder and relabeling the resulting set's type.
type SlabSourceSetBuilder struct {
	GridSourceSetBuilder
}

func (b *SlabSourceSetBuilder) Build() (*SlabSourceSet, error) {
	grid, err := b.GridSourceSetBuilder.Build()
	if err != nil {
		return nil, err
	}
	grid.sourceType = SLAB
	return &SlabSourceSet{GridSourceSet: *grid}, nil
}

package erf

import (
	"runtime"

	"github.com/alitto/pond"
)

// SystemSourceSet represents UCERF3-style multi-section indexed
// ruptures. Sections are owned by the set and referenced
// only by index from each rupture's bitset; parallel primitive arrays
// carry per-rupture scalars, a column-oriented layout sized to reach
// hundreds of thousands of ruptures.
type SystemSourceSet struct {
	baseSourceSet

	sections []*GriddedSurface
	bitsets  []*bitset
	mag      []float64
	rate     []float64
	depth    []float64
	dip      []float64
	width    []float64
	rake     []float64
}

func (s *SystemSourceSet) Sources() []Source {
	out := make([]Source, len(s.bitsets))
	for i := range s.bitsets {
		out[i] = &systemSource{set: s, idx: i}
	}
	return out
}

// NumSections returns the number of sections backing the set.
func (s *SystemSourceSet) NumSections() int { return len(s.sections) }

// NumRuptures returns the number of indexed ruptures.
func (s *SystemSourceSet) NumRuptures() int { return len(s.bitsets) }

// SectionDistances caches one site query's per-section (rJB, rRup, rX)
// results as parallel flat arrays indexed by section index, the same
// column-array layout the set itself uses for per-rupture scalars. Hit
// marks the sections whose entries are populated.
type SectionDistances struct {
	Hit  []bool
	RJB  []float64
	RRup []float64
	RX   []float64
}

// DistanceFilter implements the two-step indexed filter: a section-hit
// bitset is computed first, then every rupture whose bitset intersects
// it passes.
func (s *SystemSourceSet) DistanceFilter(loc Location, cutoff float64) []Source {
	hit := newBitset(len(s.sections))
	for i, sec := range s.sections {
		if horzDistanceFast(loc, sec.Centroid()) <= cutoff {
			hit.set(i)
		}
	}

	var out []Source
	for r, bs := range s.bitsets {
		if hit.intersects(bs) {
			out = append(out, &systemSource{set: s, idx: r})
		}
	}
	return out
}

// SectionDistancesTo computes distances for every hit section
// concurrently on a pool of n workers, defaulting to runtime.NumCPU()*2
// when n < 1. Ordering
// between tasks is irrelevant: each task writes a disjoint section index
// of the flat result arrays. There is no cancellation path; the call
// blocks until every submitted task completes.
func (s *SystemSourceSet) SectionDistancesTo(loc Location, cutoff float64, n int) SectionDistances {
	var hitSections []int
	for i, sec := range s.sections {
		if horzDistanceFast(loc, sec.Centroid()) <= cutoff {
			hitSections = append(hitSections, i)
		}
	}

	result := SectionDistances{
		Hit:  make([]bool, len(s.sections)),
		RJB:  make([]float64, len(s.sections)),
		RRup: make([]float64, len(s.sections)),
		RX:   make([]float64, len(s.sections)),
	}
	if len(hitSections) == 0 {
		return result
	}

	workers := n
	if workers < 1 {
		workers = runtime.NumCPU() * 2
	}
	pool := pond.New(workers, 0, pond.MinWorkers(workers))
	defer pool.StopAndWait()

	for _, idx := range hitSections {
		secIdx := idx
		sec := s.sections[secIdx]
		pool.Submit(func() {
			d := sec.DistancesTo(loc)
			result.Hit[secIdx] = true
			result.RJB[secIdx] = d.RJB
			result.RRup[secIdx] = d.RRup
			result.RX[secIdx] = d.RX
		})
	}

	return result
}

// systemSource adapts one indexed rupture row to the Source interface.
type systemSource struct {
	set *SystemSourceSet
	idx int
}

func (s *systemSource) Name() string { return s.set.name }
func (s *systemSource) Size() int    { return 1 }

func (s *systemSource) Iterator() RuptureIterator {
	return &systemSourceIterator{set: s.set, idx: s.idx, done: false}
}

// Sections returns the section surfaces participating in this rupture.
func (s *systemSource) Sections() []*GriddedSurface {
	bs := s.set.bitsets[s.idx]
	var out []*GriddedSurface
	for i, sec := range s.set.sections {
		if bs.test(i) {
			out = append(out, sec)
		}
	}
	return out
}

type systemSourceIterator struct {
	set  *SystemSourceSet
	idx  int
	done bool
}

func (it *systemSourceIterator) Next() (*Rupture, bool) {
	if it.done {
		return nil, false
	}
	it.done = true
	s := it.set
	// Surface is left nil: ground-motion distances for an indexed rupture
	// come from SectionDistancesTo, aggregated across its hit sections,
	// not from a single rupture-level surface.
	r := &Rupture{
		Mag:  s.mag[it.idx],
		Rake: s.rake[it.idx],
		Rate: s.rate[it.idx],
	}
	return r, true
}

// SystemSourceSetBuilder assembles a SystemSourceSet. Single-use.
type SystemSourceSetBuilder struct {
	Name     string
	Weight   float64
	GmmSet   *GmmSet
	Sections []*GriddedSurface

	// The per-rupture fields below are row-aligned: SectionIndices[r]
	// gives the set bits for rupture r, and the scalar slices its values.
	SectionIndices [][]int
	Mag            []float64
	Rate           []float64
	Depth          []float64
	Dip            []float64
	Width          []float64
	Rake           []float64

	built bool
}

func (b *SystemSourceSetBuilder) Build() (*SystemSourceSet, error) {
	if b.built {
		return nil, ErrBuildAlreadyUsed
	}
	b.built = true

	if len(b.Sections) == 0 {
		return nil, ErrEmptySourceSet
	}
	n := len(b.SectionIndices)
	if n == 0 {
		return nil, ErrEmptySourceSet
	}
	if len(b.Mag) != n || len(b.Rate) != n || len(b.Depth) != n || len(b.Dip) != n || len(b.Width) != n || len(b.Rake) != n {
		return nil, &ValidationError{Component: "SystemSourceSet", Reason: "per-rupture arrays must share a common length"}
	}

	bitsets := make([]*bitset, n)
	for r, indices := range b.SectionIndices {
		if len(indices) < 2 {
			return nil, &ValidationError{Component: "SystemSourceSet", Reason: "every rupture must span at least 2 sections"}
		}
		bs := newBitset(len(b.Sections))
		for _, idx := range indices {
			if idx < 0 || idx >= len(b.Sections) {
				return nil, &ValidationError{Component: "SystemSourceSet", Reason: "section index out of range"}
			}
			bs.set(idx)
		}
		if bs.count() < 2 {
			return nil, &ValidationError{Component: "SystemSourceSet", Reason: "every rupture must span at least 2 distinct sections"}
		}
		bitsets[r] = bs
	}

	scaled := append([]float64(nil), b.Rate...)
	scaleFlat(scaled, b.Weight)

	return &SystemSourceSet{
		baseSourceSet: baseSourceSet{name: b.Name, weight: b.Weight, sourceType: SYSTEM, gmmSet: b.GmmSet},
		sections:      b.Sections,
		bitsets:       bitsets,
		mag:           b.Mag,
		rate:          scaled,
		depth:         b.Depth,
		dip:           b.Dip,
		width:         b.Width,
		rake:          b.Rake,
	}, nil
}

func scaleFlat(values []float64, weight float64) {
	for i := range values {
		values[i] *= weight
	}
}

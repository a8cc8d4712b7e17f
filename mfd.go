package erf

import (
	"math"

	"github.com/samber/lo"
)

// magRateFloor is the numerical floor below which individual MFD bins
// are silently dropped from rupture lists.
const magRateFloor = 1e-14

// IncrementalMfd is a finite ordered sequence of (magnitude, annual
// rate) pairs with, in the common case, uniform magnitude spacing. It
// is immutable once constructed; the factory functions
// in mfd_builders.go are the only way to obtain one. Floats reports
// whether each bin should be realized as floating subset-surface
// ruptures by the fault rupture generator.
type IncrementalMfd struct {
	mags   []float64
	rates  []float64
	dMag   float64
	floats bool
}

// MagCount returns the number of bins, for diagnostic purposes and for
// round-trip validation.
func (m IncrementalMfd) MagCount() int { return len(m.mags) }

// Mag returns the magnitude of bin i.
func (m IncrementalMfd) Mag(i int) float64 { return m.mags[i] }

// Rate returns the annual rate of bin i.
func (m IncrementalMfd) Rate(i int) float64 { return m.rates[i] }

// DMag returns the magnitude bin spacing. For a non-uniform incremental
// MFD this is the spacing between the first two bins and is only
// informative, not authoritative (incremental MFDs may be non-uniform).
func (m IncrementalMfd) DMag() float64 { return m.dMag }

// Floats reports the floating-rupture flag.
func (m IncrementalMfd) Floats() bool { return m.floats }

// Mags returns a defensive copy of the magnitude array.
func (m IncrementalMfd) Mags() []float64 { return append([]float64(nil), m.mags...) }

// Rates returns a defensive copy of the rate array.
func (m IncrementalMfd) Rates() []float64 { return append([]float64(nil), m.rates...) }

// magCount computes the integer bin count implied by mMin, mMax and
// dMag. mMax is treated as
// the exclusive upper edge of the binned range (bin i covers
// [mMin+i*dMag, mMin+(i+1)*dMag)): mMin=5.0, mMax=7.0, dMag=0.1 gives
// 20 bins, not 21.
func magCount(mMin, mMax, dMag float64) int {
	if dMag <= 0 {
		return 0
	}
	n := int(math.Round((mMax - mMin) / dMag))
	if n < 0 {
		return 0
	}
	return n
}

// Scale multiplies every bin's rate by factor and returns a new
// IncrementalMfd. SourceSet construction
// uses this to fold a set-level weight into every contained MFD
// the rates a source carries are final once the set is built.
func (m IncrementalMfd) Scale(factor float64) IncrementalMfd {
	rates := lo.Map(m.rates, func(r float64, _ int) float64 { return r * factor })
	return IncrementalMfd{mags: m.mags, rates: rates, dMag: m.dMag, floats: m.floats}
}

// ScaleToIncrRate rescales every bin so that the bin whose magnitude is
// closest to m0 has rate r.
func (m IncrementalMfd) ScaleToIncrRate(m0, r float64) IncrementalMfd {
	idx := m.closestIndex(m0)
	if idx < 0 || m.rates[idx] == 0 {
		return m
	}
	factor := r / m.rates[idx]
	return m.Scale(factor)
}

// closestIndex returns the index of the bin whose magnitude is closest
// to m0, or -1 for an empty MFD.
func (m IncrementalMfd) closestIndex(m0 float64) int {
	if len(m.mags) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Abs(m.mags[0] - m0)
	for i := 1; i < len(m.mags); i++ {
		d := math.Abs(m.mags[i] - m0)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// TotalRate sums the annual rate across all bins.
func (m IncrementalMfd) TotalRate() float64 {
	return lo.Sum(m.rates)
}

// TotalMoment sums rate(m_i) * momentOfMagnitude(m_i) across all bins,
// the quantity the G-R moment-balanced builder (mfd_builders.go) holds
// fixed.
func (m IncrementalMfd) TotalMoment() float64 {
	total := 0.0
	for i, mag := range m.mags {
		total += m.rates[i] * momentOfMagnitude(mag)
	}
	return total
}

// filteredBins returns the (index, mag, rate) triples whose rate clears
// the numerical floor.
// Dropping sub-floor bins is silent, not an error.
type mfdBin struct {
	Index int
	Mag   float64
	Rate  float64
}

func (m IncrementalMfd) filteredBins() []mfdBin {
	out := make([]mfdBin, 0, len(m.mags))
	for i, r := range m.rates {
		if r < magRateFloor {
			continue
		}
		out = append(out, mfdBin{Index: i, Mag: m.mags[i], Rate: r})
	}
	return out
}

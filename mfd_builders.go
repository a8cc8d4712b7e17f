package erf

import (
	"errors"
	"math"
)

// NewIncrementalMfd constructs an IncrementalMfd from caller-supplied
// magnitude and rate arrays of identical length. Magnitudes must be
// strictly increasing; rates must be non-negative.
func NewIncrementalMfd(mags, rates []float64, floats bool) (IncrementalMfd, error) {
	if len(mags) != len(rates) {
		return IncrementalMfd{}, &ValidationError{Component: "IncrementalMfd", Reason: "magnitude and rate arrays differ in length"}
	}
	if len(mags) == 0 {
		return IncrementalMfd{}, errors.Join(ErrEmptyMfd, &ValidationError{Component: "IncrementalMfd", Reason: "nMag == 0"})
	}
	for i := 1; i < len(mags); i++ {
		if mags[i] <= mags[i-1] {
			return IncrementalMfd{}, &ValidationError{Component: "IncrementalMfd", Reason: "magnitudes must be strictly increasing"}
		}
	}
	for _, r := range rates {
		if r < 0 {
			return IncrementalMfd{}, &ValidationError{Component: "IncrementalMfd", Reason: "rates must be >= 0"}
		}
	}
	dMag := 0.0
	if len(mags) > 1 {
		dMag = mags[1] - mags[0]
	}
	return IncrementalMfd{
		mags:   append([]float64(nil), mags...),
		rates:  append([]float64(nil), rates...),
		dMag:   dMag,
		floats: floats,
	}, nil
}

// NewSingleMfd constructs a one-bin MFD.
func NewSingleMfd(m, rate float64, floats bool) (IncrementalMfd, error) {
	return NewIncrementalMfd([]float64{m}, []float64{rate}, floats)
}

// NewGutenbergRichterMfd builds a Gutenberg-Richter MFD of nMag bins
// starting at mMin with spacing dMag and b-value b, with rates set so
// that annual rate at magnitude m_i follows the classic G-R log-linear
// form scaled by a. This is the "parametric a/b" entry point used
// directly by the XML <MagFreqDist type=GR> grammar; the
// moment-balanced variant below is used when a total moment rate is
// given instead of a.
func NewGutenbergRichterMfd(a, b, mMin, mMax, dMag float64, floats bool) (IncrementalMfd, error) {
	n := magCount(mMin, mMax, dMag)
	if n <= 0 {
		return IncrementalMfd{}, errors.Join(ErrEmptyMfd, &ValidationError{Component: "GutenbergRichterMfd", Reason: "nMag == 0"})
	}
	mags := make([]float64, n)
	rates := make([]float64, n)
	for i := 0; i < n; i++ {
		m := mMin + float64(i)*dMag
		mags[i] = m
		// cumulative G-R: N(>=m) = 10^(a - b*m); incremental rate per
		// bin approximated as the derivative over the bin width, i.e.
		// the difference between the cumulative rate at the bin edges.
		lo := math.Pow(10.0, a-b*(m-dMag/2.0))
		hi := math.Pow(10.0, a-b*(m+dMag/2.0))
		rates[i] = lo - hi
	}
	return NewIncrementalMfd(mags, rates, floats)
}

// NewGutenbergRichterMoBalancedMFD builds a G-R distribution of nMag
// bins starting at mMin with spacing dMag and b-value b, scaled so that
// the summed scalar moment equals totalMoRate exactly up to rounding.
//
// Procedure: compute the unnormalized moment contribution of each bin
// as momentOfMagnitude(m_i) weighted by an unnormalized G-R shape
// 10^(-b*m_i); scale the whole table so the summed rate*moment equals
// totalMoRate.
func NewGutenbergRichterMoBalancedMFD(mMin, dMag float64, nMag int, b, totalMoRate float64, floats bool) (IncrementalMfd, error) {
	if nMag <= 0 {
		return IncrementalMfd{}, errors.Join(ErrEmptyMfd, &ValidationError{Component: "GutenbergRichterMoBalancedMFD", Reason: "nMag == 0"})
	}

	mags := make([]float64, nMag)
	shape := make([]float64, nMag)
	unnormalizedMoment := 0.0
	for i := 0; i < nMag; i++ {
		m := mMin + float64(i)*dMag
		mags[i] = m
		shape[i] = math.Pow(10.0, -b*m)
		unnormalizedMoment += shape[i] * momentOfMagnitude(m)
	}

	if unnormalizedMoment <= 0 {
		return IncrementalMfd{}, &ValidationError{Component: "GutenbergRichterMoBalancedMFD", Reason: "degenerate moment shape"}
	}

	scale := totalMoRate / unnormalizedMoment
	rates := make([]float64, nMag)
	for i := range rates {
		rates[i] = shape[i] * scale
	}

	return NewIncrementalMfd(mags, rates, floats)
}

// NewGaussianMfd builds a Gaussian MFD centered on m with standard
// deviation sigma over an odd number of equally spaced bins spanning
// [m-3*sigma, m+3*sigma]. moBalance selects
// whether total is interpreted as a total moment rate (true) or a total
// event rate (false) to preserve across the discretization.
func NewGaussianMfd(m, sigma float64, nBins int, total float64, moBalance, floats bool) (IncrementalMfd, error) {
	if nBins <= 0 {
		return IncrementalMfd{}, errors.Join(ErrEmptyMfd, &ValidationError{Component: "GaussianMfd", Reason: "nBins == 0"})
	}
	if nBins%2 == 0 {
		return IncrementalMfd{}, &ValidationError{Component: "GaussianMfd", Reason: "bin count must be odd so the distribution centers on the nominal magnitude"}
	}

	dMag := 0.0
	mMin := m
	if nBins > 1 {
		dMag = 6.0 * sigma / float64(nBins-1)
		mMin = m - 3.0*sigma
	}

	mags := make([]float64, nBins)
	shape := make([]float64, nBins)
	shapeSum := 0.0
	for i := 0; i < nBins; i++ {
		mi := mMin + float64(i)*dMag
		mags[i] = mi
		var g float64
		if sigma == 0 {
			if i == nBins/2 {
				g = 1.0
			}
		} else {
			z := (mi - m) / sigma
			g = math.Exp(-0.5 * z * z)
		}
		shape[i] = g
		shapeSum += g
	}

	rates := make([]float64, nBins)
	if moBalance {
		momentSum := 0.0
		for i, mi := range mags {
			momentSum += shape[i] * momentOfMagnitude(mi)
		}
		if momentSum <= 0 {
			return IncrementalMfd{}, &ValidationError{Component: "GaussianMfd", Reason: "degenerate moment shape"}
		}
		scale := total / momentSum
		for i := range rates {
			rates[i] = shape[i] * scale
		}
	} else {
		if shapeSum <= 0 {
			return IncrementalMfd{}, &ValidationError{Component: "GaussianMfd", Reason: "degenerate rate shape"}
		}
		scale := total / shapeSum
		for i := range rates {
			rates[i] = shape[i] * scale
		}
	}

	return NewIncrementalMfd(mags, rates, floats)
}

package erf

import (
	"math"

	"github.com/samber/lo"
)

// Epistemic bundles the signed magnitude-shift branches and their
// weights applied to a nominal magnitude.
type Epistemic struct {
	Enabled bool
	Deltas  []float64
	Weights []float64
	Cutoff  float64
}

// Aleatory bundles the Gaussian smoothing applied within each epistemic
// branch.
type Aleatory struct {
	Enabled   bool
	Sigma     float64
	Count     int
	MoBalance bool
	Cutoff    float64
}

// MagUncertainty is the configuration bundle controlling how a nominal
// (magnitude, rate) pair expands into a list of branch MFDs.
type MagUncertainty struct {
	Epistemic Epistemic
	Aleatory  Aleatory
}

// Validate enforces the configuration invariants: delta and
// weight arrays the same length, weights summing to 1 within tolerance,
// and an odd aleatory bin count.
func (u MagUncertainty) Validate() error {
	if u.Epistemic.Enabled {
		if len(u.Epistemic.Deltas) != len(u.Epistemic.Weights) {
			return &ValidationError{Component: "MagUncertainty", Reason: "epistemic delta/weight arrays differ in length"}
		}
		sum := lo.Sum(u.Epistemic.Weights)
		if math.Abs(sum-1.0) > 1e-6 {
			return &ValidationError{Component: "MagUncertainty", Reason: "epistemic weights do not sum to 1"}
		}
	}
	if u.Aleatory.Enabled && u.Aleatory.Count%2 == 0 {
		return &ValidationError{Component: "MagUncertainty", Reason: "aleatory bin count must be odd"}
	}
	return nil
}

// branchMfd is an (MFD, weight) pair produced by expandSingleMfd; the
// weight is already folded into the MFD's rate, but is retained for
// diagnostic reconstruction, the same convention SourceSet follows for
// its set weight.
type branchMfd struct {
	Mfd    IncrementalMfd
	Weight float64
}

// expandSingleMfd takes a nominal (magnitude, rate) pair plus a
// MagUncertainty and returns the list of branch MFDs:
//
//   - if epistemic branching is disabled, or mMax+epiDelta_0 < epiCutoff,
//     a single unbranched MFD carries the full nominal rate;
//   - otherwise one MFD is emitted per epistemic delta, with rates in
//     proportion to the branch weights and scaled so that the branches'
//     combined scalar moment equals that of the nominal magnitude/rate;
//   - within each epistemic branch, if aleatory is enabled and the
//     branch magnitude is >= the aleatory cutoff, the single magnitude
//     is replaced by a Gaussian distribution (moment- or rate-balanced
//     per u.Aleatory.MoBalance).
func expandSingleMfd(nominalMag, nominalRate float64, u MagUncertainty, floats bool) ([]branchMfd, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	suppressed := !u.Epistemic.Enabled || len(u.Epistemic.Deltas) == 0
	if !suppressed {
		// Cutoff semantics: below cutoff, branching is suppressed and a
		// single, unbranched MFD carries the full weight.
		if nominalMag+u.Epistemic.Deltas[0] < u.Epistemic.Cutoff {
			suppressed = true
		}
	}

	var branches []branchMfd
	if suppressed {
		branches = []branchMfd{{Weight: 1.0, Mfd: mustSingle(nominalMag, nominalRate, floats)}}
	} else {
		// Branches preserve total scalar moment, not total rate: shifting
		// magnitude changes the moment released per event, so the rate
		// assigned to each branch is rescaled by a common factor R' that
		// keeps Σ rate_i*moment(m_i) equal to the nominal MFD's total
		// moment, while the ratio between branch rates still follows the
		// branch weights.
		nominalMoment := nominalRate * momentOfMagnitude(nominalMag)
		unnormalizedMoment := 0.0
		for i, d := range u.Epistemic.Deltas {
			unnormalizedMoment += u.Epistemic.Weights[i] * momentOfMagnitude(nominalMag+d)
		}
		rPrime := 0.0
		if unnormalizedMoment > 0 {
			rPrime = nominalMoment / unnormalizedMoment
		}

		branches = make([]branchMfd, len(u.Epistemic.Deltas))
		for i, d := range u.Epistemic.Deltas {
			branches[i] = branchMfd{
				Weight: u.Epistemic.Weights[i],
				Mfd:    mustSingle(nominalMag+d, rPrime*u.Epistemic.Weights[i], floats),
			}
		}
	}

	out := make([]branchMfd, 0, len(branches))
	for _, b := range branches {
		branchMag := b.Mfd.Mag(0)
		branchRate := b.Mfd.Rate(0)

		if u.Aleatory.Enabled && branchMag >= u.Aleatory.Cutoff {
			total := branchRate
			if u.Aleatory.MoBalance {
				total = branchRate * momentOfMagnitude(branchMag)
			}
			g, err := NewGaussianMfd(branchMag, u.Aleatory.Sigma, u.Aleatory.Count, total, u.Aleatory.MoBalance, floats)
			if err != nil {
				return nil, err
			}
			out = append(out, branchMfd{Mfd: g, Weight: b.Weight})
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

// ExpandMfd is the exported entry point the XML loader calls to turn a
// nominal (magnitude, rate) pair plus a MagUncertainty configuration
// into a branch MFD list, one per epistemic branch. Each returned MFD already
// carries its branch weight folded into its rate, so callers (builders)
// simply attach the whole slice as a Source's Mfds.
func ExpandMfd(nominalMag, nominalRate float64, u MagUncertainty, floats bool) ([]IncrementalMfd, error) {
	branches, err := expandSingleMfd(nominalMag, nominalRate, u, floats)
	if err != nil {
		return nil, err
	}
	out := make([]IncrementalMfd, len(branches))
	for i, b := range branches {
		out[i] = b.Mfd
	}
	return out, nil
}

func mustSingle(m, rate float64, floats bool) IncrementalMfd {
	mfd, err := NewSingleMfd(m, rate, floats)
	if err != nil {
		// A single-bin MFD with one finite (m, rate) pair can only fail
		// validation on NaN/Inf input, which callers are expected to
		// have already rejected at the XML-attribute layer.
		panic(err)
	}
	return mfd
}

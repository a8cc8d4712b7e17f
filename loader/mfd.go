package loader

import (
	"strings"

	erf "github.com/sixy6e/go-erf"
)

// resolveMagFreqDist picks a Source's own <MagFreqDist> when present,
// falling back to the SourceSet's <Settings><MagFreqDistRef> default.
func resolveMagFreqDist(own, ref *magFreqDistElem) *magFreqDistElem {
	if own != nil {
		return own
	}
	return ref
}

// parseMagUncertainty converts the raw <MagUncertainty> element into an
// erf.MagUncertainty, defaulting to "disabled" branches when absent.
func parseMagUncertainty(elem *magUncertaintyElem) (erf.MagUncertainty, error) {
	var u erf.MagUncertainty
	if elem == nil {
		return u, nil
	}

	if elem.Epistemic != nil {
		deltas, err := parseFloatList(elem.Epistemic.Deltas)
		if err != nil {
			return u, err
		}
		weights, err := parseFloatList(elem.Epistemic.Weights)
		if err != nil {
			return u, err
		}
		u.Epistemic = erf.Epistemic{
			Enabled: len(deltas) > 0,
			Deltas:  deltas,
			Weights: weights,
			Cutoff:  elem.Epistemic.Cutoff,
		}
	}
	if elem.Aleatory != nil {
		u.Aleatory = erf.Aleatory{
			Enabled:   elem.Aleatory.Count > 0,
			Sigma:     elem.Aleatory.Sigma,
			Count:     elem.Aleatory.Count,
			MoBalance: elem.Aleatory.MoBalance,
			Cutoff:    elem.Aleatory.Cutoff,
		}
	}
	return u, nil
}

// buildMfds constructs the list of IncrementalMfd a Source attaches,
// applying epistemic/aleatory expansion for SINGLE-type MFDs. GR-type
// MFDs already span a continuous magnitude range and are emitted
// unbranched: expansion is defined in terms of a single nominal
// magnitude.
func buildMfds(elem *magFreqDistElem, uncertaintyElem *magUncertaintyElem) ([]erf.IncrementalMfd, error) {
	if elem == nil {
		return nil, erf.ErrNoMfds
	}

	u, err := parseMagUncertainty(uncertaintyElem)
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(elem.Type) {
	case "SINGLE":
		return erf.ExpandMfd(elem.M, elem.Weight, u, elem.Floats)
	case "GR":
		mfd, err := erf.NewGutenbergRichterMfd(elem.A, elem.B, elem.MMin, elem.MMax, elem.DMag, elem.Floats)
		if err != nil {
			return nil, err
		}
		return []erf.IncrementalMfd{mfd}, nil
	default:
		return nil, &erf.ParseError{Element: "MagFreqDist", Reason: "unknown type " + elem.Type}
	}
}

// floatStyleFromString maps the `floatStyle` attribute's named value to
// its erf.FloatStyle, defaulting to FULL_DOWN_DIP.
func floatStyleFromString(s string) erf.FloatStyle {
	switch strings.ToUpper(s) {
	case "DOWN_DIP":
		return erf.DOWN_DIP
	case "CENTERED":
		return erf.CENTERED
	default:
		return erf.FULL_DOWN_DIP
	}
}

// magScalingFromString maps the `magScaling` attribute's named value to
// its erf.MagScalingType.
func magScalingFromString(s string) (erf.MagScalingType, bool) {
	switch strings.ToUpper(s) {
	case "WC1994_LENGTH":
		return erf.WC1994_LENGTH, true
	case "WC1994_AREA":
		return erf.WC1994_AREA, true
	case "GEOMATRIX", "GEOMATRIX_AREA":
		return erf.GEOMATRIX_AREA, true
	case "CA", "CA_AREA":
		return erf.CA_AREA, true
	default:
		return 0, false
	}
}

package erf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpandMfdEpistemicThreeBranch: a SINGLE MFD at m=6.5 with
// 3-branch epistemic uncertainty,
// deltas [-0.2, 0, +0.2] and weights [0.2, 0.6, 0.2]. Expansion yields 3
// MFDs at magnitudes 6.3, 6.5, 6.7 whose rates stand in the ratio
// 0.2 : 0.6 : 0.2 and whose combined scalar moment equals the nominal
// single-MFD total moment.
func TestExpandMfdEpistemicThreeBranch(t *testing.T) {
	const nominalMag = 6.5
	const nominalRate = 1e-3

	u := MagUncertainty{
		Epistemic: Epistemic{
			Enabled: true,
			Deltas:  []float64{-0.2, 0.0, 0.2},
			Weights: []float64{0.2, 0.6, 0.2},
		},
	}

	mfds, err := ExpandMfd(nominalMag, nominalRate, u, false)
	require.NoError(t, err)
	require.Len(t, mfds, 3)

	assert.InDelta(t, 6.3, mfds[0].Mag(0), 1e-9)
	assert.InDelta(t, 6.5, mfds[1].Mag(0), 1e-9)
	assert.InDelta(t, 6.7, mfds[2].Mag(0), 1e-9)

	// branch rates follow the branch weights
	assert.InDelta(t, 0.2/0.6, mfds[0].Rate(0)/mfds[1].Rate(0), 1e-9)
	assert.InDelta(t, 0.2/0.6, mfds[2].Rate(0)/mfds[1].Rate(0), 1e-9)

	nominalMoment := nominalRate * math.Pow(10, 1.5*nominalMag+9.05)
	var totalMoment float64
	for _, mfd := range mfds {
		totalMoment += mfd.TotalMoment()
	}
	assert.InDelta(t, 1.0, totalMoment/nominalMoment, 1e-9)
}

// TestExpandMfdEpistemicCutoffSuppression covers the cutoff semantics:
// below cutoff, branching is suppressed and a single unbranched MFD
// carries the full rate.
func TestExpandMfdEpistemicCutoffSuppression(t *testing.T) {
	u := MagUncertainty{
		Epistemic: Epistemic{
			Enabled: true,
			Deltas:  []float64{-0.2, 0.0, 0.2},
			Weights: []float64{0.2, 0.6, 0.2},
			Cutoff:  6.5,
		},
	}

	mfds, err := ExpandMfd(6.0, 1e-3, u, false)
	require.NoError(t, err)
	require.Len(t, mfds, 1)
	assert.InDelta(t, 6.0, mfds[0].Mag(0), 1e-9)
	assert.InDelta(t, 1e-3, mfds[0].Rate(0), 1e-12)
}

// TestExpandMfdAleatory verifies that each epistemic branch is replaced
// by an odd-bin Gaussian centered on the branch magnitude when aleatory
// smoothing is enabled.
func TestExpandMfdAleatory(t *testing.T) {
	u := MagUncertainty{
		Aleatory: Aleatory{
			Enabled:   true,
			Sigma:     0.12,
			Count:     11,
			MoBalance: true,
		},
	}

	mfds, err := ExpandMfd(7.0, 1e-4, u, false)
	require.NoError(t, err)
	require.Len(t, mfds, 1)
	require.Equal(t, 11, mfds[0].MagCount())

	// center bin is the nominal magnitude
	assert.InDelta(t, 7.0, mfds[0].Mag(5), 1e-9)

	// moBalance preserves the nominal total moment
	nominalMoment := 1e-4 * math.Pow(10, 1.5*7.0+9.05)
	assert.InDelta(t, 1.0, mfds[0].TotalMoment()/nominalMoment, 1e-9)
}

func TestMagUncertaintyValidateRejectsMismatchedArrays(t *testing.T) {
	u := MagUncertainty{
		Epistemic: Epistemic{
			Enabled: true,
			Deltas:  []float64{-0.2, 0.0, 0.2},
			Weights: []float64{0.5, 0.5},
		},
	}
	require.Error(t, u.Validate())
}

func TestMagUncertaintyValidateRejectsEvenAleatoryCount(t *testing.T) {
	u := MagUncertainty{
		Aleatory: Aleatory{Enabled: true, Sigma: 0.12, Count: 10},
	}
	require.Error(t, u.Validate())
}

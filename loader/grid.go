package loader

import (
	"encoding/xml"
	"strings"

	"github.com/samber/lo"

	erf "github.com/sixy6e/go-erf"
)

// pointVariantFromString maps the `variant` attribute to its
// erf.PointVariant, defaulting to POINT.
func pointVariantFromString(s string) erf.PointVariant {
	switch strings.ToUpper(s) {
	case "FINITE":
		return erf.FINITE
	case "FIXED_STRIKE":
		return erf.FIXED_STRIKE
	default:
		return erf.POINT
	}
}

func toMagDepthEntries(groups []magDepthGroup) []erf.MagDepthEntry {
	return lo.Map(groups, func(g magDepthGroup, _ int) erf.MagDepthEntry {
		return erf.MagDepthEntry{MagCutoff: g.MagCutoff, Depths: g.Depths}
	})
}

// parseGridSourceSet parses one `<GridSourceSet>` document into an
// erf.GridSourceSet, via erf.GridSourceSetBuilder.
func parseGridSourceSet(file string, data []byte, gmm *erf.GmmSet) (*erf.GridSourceSet, error) {
	var elem gridSourceSetElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "GridSourceSet", Reason: err.Error()}
	}
	if err := requireAttrs(&elem, file, "GridSourceSet"); err != nil {
		return nil, err
	}

	builder, err := newGridBuilder(file, &elem, gmm)
	if err != nil {
		return nil, err
	}
	return builder.Build()
}

// parseSlabSourceSet is identical to parseGridSourceSet except it
// delegates to erf.SlabSourceSetBuilder: Grid and Slab share the same
// grammar and filter protocol, distinguished only by SourceType.
func parseSlabSourceSet(file string, data []byte, gmm *erf.GmmSet) (*erf.SlabSourceSet, error) {
	var elem gridSourceSetElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "SlabSourceSet", Reason: err.Error()}
	}
	if err := requireAttrs(&elem, file, "SlabSourceSet"); err != nil {
		return nil, err
	}

	gridBuilder, err := newGridBuilder(file, &elem, gmm)
	if err != nil {
		return nil, err
	}
	slabBuilder := &erf.SlabSourceSetBuilder{GridSourceSetBuilder: *gridBuilder}
	return slabBuilder.Build()
}

// newGridBuilder assembles the shared GridSourceSetBuilder fields for
// both GRID and SLAB documents.
func newGridBuilder(file string, elem *gridSourceSetElem, gmm *erf.GmmSet) (*erf.GridSourceSetBuilder, error) {
	msr, ok := magScalingFromString(elem.Properties.MagScaling)
	if !ok {
		return nil, &erf.ParseError{File: file, Element: "SourceProperties", Reason: "unknown magScaling " + elem.Properties.MagScaling}
	}

	groups, err := parseMagDepthMap(elem.Properties.MagDepthMap)
	if err != nil {
		return nil, err
	}

	defaultMechs, err := parseFocalMechMap(elem.Properties.FocalMechMap)
	if err != nil {
		return nil, err
	}

	offset := elem.Properties.Offset
	if offset <= 0 {
		offset = 1.0
	}

	builder := &erf.GridSourceSetBuilder{
		Name:         elem.Name,
		Weight:       elem.Weight,
		Msr:          msr,
		GmmSet:       gmm,
		Variant:      pointVariantFromString(elem.Variant),
		DefaultMechs: defaultMechs,
		MagDepthMap:  toMagDepthEntries(groups),
		FixedStrike:  elem.Properties.Strike,
		Offset:       offset,
	}

	for _, node := range elem.Nodes {
		mfdElem := resolveMagFreqDist(node.MagFreqDist, elem.Settings.MagFreqDistRef)
		mfds, err := buildMfds(mfdElem, elem.Settings.MagUncertainty)
		if err != nil {
			return nil, err
		}
		loc, err := parseLocAttr(node.Loc)
		if err != nil {
			return nil, err
		}

		var mechs *erf.FocalMechWeights
		if node.FocalMechMap != "" {
			nodeMechs, err := parseFocalMechMap(node.FocalMechMap)
			if err != nil {
				return nil, err
			}
			mechs = &nodeMechs
		}

		for _, mfd := range mfds {
			name := node.Name
			if name == "" {
				name = file
			}
			if len(mfds) > 1 {
				name = name + "-branch"
			}
			builder.Nodes = append(builder.Nodes, erf.GridNode{
				Name:  name,
				Loc:   loc,
				Mfd:   mfd,
				Mechs: mechs,
			})
		}
	}

	return builder, nil
}

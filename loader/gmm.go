package loader

import (
	"encoding/xml"

	erf "github.com/sixy6e/go-erf"
)

// parseGmmXml parses one `gmm.xml` document into an erf.GmmSet. The
// first `<ModelSet>` child is the
// primary; a second, if present, is the secondary.
func parseGmmXml(file string, data []byte) (*erf.GmmSet, error) {
	var elem groundMotionModelsElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "GroundMotionModels", Reason: err.Error()}
	}
	if len(elem.ModelSets) == 0 {
		return nil, &erf.ParseError{File: file, Element: "GroundMotionModels", Reason: "no ModelSet present"}
	}
	if len(elem.ModelSets) > 2 {
		return nil, &erf.ParseError{File: file, Element: "GroundMotionModels", Reason: "at most 2 ModelSet elements supported"}
	}

	builder := &erf.GmmSetBuilder{}

	primary := elem.ModelSets[0]
	if err := requireAttrs(&primary, file, "ModelSet"); err != nil {
		return nil, err
	}
	builder.Primary = make(map[string]float64, len(primary.Models))
	for _, m := range primary.Models {
		if err := requireAttrs(&m, file, "Model"); err != nil {
			return nil, err
		}
		builder.Primary[m.Id] = m.Weight
	}
	builder.PrimaryMaxDist = primary.MaxDistance

	if primary.Uncertainty != nil {
		values, err := parseFloatList(primary.Uncertainty.Values)
		if err != nil {
			return nil, err
		}
		weights, err := parseFloatList(primary.Uncertainty.Weights)
		if err != nil {
			return nil, err
		}
		if len(weights) != 3 {
			return nil, &erf.ParseError{File: file, Element: "Uncertainty", Reason: "weights must have length 3"}
		}
		builder.HasUncertainty = true
		builder.UncertaintyValues = values
		builder.UncertaintyWeights = [3]float64{weights[0], weights[1], weights[2]}
	}

	if len(elem.ModelSets) == 2 {
		secondary := elem.ModelSets[1]
		if err := requireAttrs(&secondary, file, "ModelSet"); err != nil {
			return nil, err
		}
		builder.Secondary = make(map[string]float64, len(secondary.Models))
		for _, m := range secondary.Models {
			if err := requireAttrs(&m, file, "Model"); err != nil {
				return nil, err
			}
			builder.Secondary[m.Id] = m.Weight
		}
		builder.SecondaryMaxDist = secondary.MaxDistance
	}

	return builder.Build()
}

package loader

import (
	"encoding/xml"

	erf "github.com/sixy6e/go-erf"
)

// parseFaultSourceSet parses one `<FaultSourceSet>` document into an
// erf.FaultSourceSet, via erf.FaultSourceSetBuilder.
func parseFaultSourceSet(file string, data []byte, gmm *erf.GmmSet) (*erf.FaultSourceSet, error) {
	var elem faultSourceSetElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "FaultSourceSet", Reason: err.Error()}
	}
	if err := requireAttrs(&elem, file, "FaultSourceSet"); err != nil {
		return nil, err
	}

	msr, ok := magScalingFromString(elem.Properties.MagScaling)
	if !ok {
		return nil, &erf.ParseError{File: file, Element: "SourceProperties", Reason: "unknown magScaling " + elem.Properties.MagScaling}
	}
	offset := elem.Properties.Offset
	if offset <= 0 {
		offset = 1.0
	}
	aspect := elem.Properties.AspectRatio
	if aspect <= 0 {
		aspect = 1.0
	}
	floatStyle := floatStyleFromString(elem.Properties.FloatStyle)

	builder := &erf.FaultSourceSetBuilder{
		Name:   elem.Name,
		Weight: elem.Weight,
		Msr:    msr,
		GmmSet: gmm,
	}

	for _, src := range elem.Sources {
		mfdElem := resolveMagFreqDist(src.MagFreqDist, elem.Settings.MagFreqDistRef)
		mfds, err := buildMfds(mfdElem, elem.Settings.MagUncertainty)
		if err != nil {
			return nil, err
		}
		trace, err := src.Trace.parse()
		if err != nil {
			return nil, err
		}

		builder.Sources = append(builder.Sources, &erf.FaultSourceBuilder{
			Name:        src.Name,
			Trace:       trace,
			Dip:         src.Geometry.Dip,
			Width:       src.Geometry.Width,
			Rake:        src.Geometry.Rake,
			Offset:      offset,
			Mfds:        mfds,
			Msr:         msr,
			MsrSet:      true,
			AspectRatio: aspect,
			FloatStyle:  floatStyle,
		})
	}

	return builder.Build()
}

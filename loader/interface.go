package loader

import (
	"encoding/xml"

	erf "github.com/sixy6e/go-erf"
)

// parseInterfaceSourceSet parses one `<InterfaceSourceSet>` document
// into an erf.InterfaceSourceSet via erf.InterfaceSourceSetBuilder.
func parseInterfaceSourceSet(file string, data []byte, gmm *erf.GmmSet) (*erf.InterfaceSourceSet, error) {
	var elem interfaceSourceSetElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "InterfaceSourceSet", Reason: err.Error()}
	}
	if err := requireAttrs(&elem, file, "InterfaceSourceSet"); err != nil {
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

	builder := &erf.InterfaceSourceSetBuilder{
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
		upper, err := src.Trace.parse()
		if err != nil {
			return nil, err
		}
		lower, err := src.LowerTrace.parse()
		if err != nil {
			return nil, err
		}

		builder.Sources = append(builder.Sources, &erf.InterfaceSourceBuilder{
			Name:        src.Name,
			UpperTrace:  upper,
			LowerTrace:  lower,
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

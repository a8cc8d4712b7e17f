package loader

import (
	"encoding/xml"

	erf "github.com/sixy6e/go-erf"
)

// parseIndexedFaultSourceSet parses the two-file IndexedFaultSourceSet
// split into an erf.SystemSourceSet: fault_sections.xml gives the
// section surfaces, fault_ruptures.xml gives the indexed ruptures that
// reference them by a range-string of section indices.
func parseIndexedFaultSourceSet(sectionsFile string, sectionsData []byte, rupturesFile string, rupturesData []byte, gmm *erf.GmmSet) (*erf.SystemSourceSet, error) {
	var sectionsElem faultSectionsElem
	if err := xml.Unmarshal(sectionsData, &sectionsElem); err != nil {
		return nil, &erf.ParseError{File: sectionsFile, Element: "FaultSections", Reason: err.Error()}
	}
	if err := requireAttrs(&sectionsElem, sectionsFile, "FaultSections"); err != nil {
		return nil, err
	}

	surfaces := make([]*erf.GriddedSurface, len(sectionsElem.Sections))
	for i, sec := range sectionsElem.Sections {
		if err := requireAttrs(&sec, sectionsFile, "Section"); err != nil {
			return nil, err
		}
		trace, err := sec.Trace.parse()
		if err != nil {
			return nil, err
		}
		offset := sec.Offset
		if offset <= 0 {
			offset = 1.0
		}
		surf, err := erf.NewGriddedSurface(trace, sec.Dip, sec.Width, offset)
		if err != nil {
			return nil, &erf.ParseError{File: sectionsFile, Element: "Section", Reason: err.Error()}
		}
		surfaces[i] = surf
	}

	var rupturesElem faultRupturesElem
	if err := xml.Unmarshal(rupturesData, &rupturesElem); err != nil {
		return nil, &erf.ParseError{File: rupturesFile, Element: "FaultRuptures", Reason: err.Error()}
	}
	if err := requireAttrs(&rupturesElem, rupturesFile, "FaultRuptures"); err != nil {
		return nil, err
	}

	weight := rupturesElem.Weight
	if weight <= 0 {
		weight = 1.0
	}

	builder := &erf.SystemSourceSetBuilder{
		Name:     rupturesElem.Name,
		Weight:   weight,
		GmmSet:   gmm,
		Sections: surfaces,
	}

	for _, r := range rupturesElem.Ruptures {
		if err := requireAttrs(&r, rupturesFile, "Rupture"); err != nil {
			return nil, err
		}
		indices, err := parseRangeString(r.Sections)
		if err != nil {
			return nil, err
		}
		builder.SectionIndices = append(builder.SectionIndices, indices)
		builder.Mag = append(builder.Mag, r.Mag)
		builder.Rate = append(builder.Rate, r.Rate)
		builder.Depth = append(builder.Depth, r.Depth)
		builder.Dip = append(builder.Dip, r.Dip)
		builder.Width = append(builder.Width, r.Width)
		builder.Rake = append(builder.Rake, r.Rake)
	}

	return builder.Build()
}

package loader

import (
	"encoding/xml"

	erf "github.com/sixy6e/go-erf"
)

// parseClusterSourceSet parses one `<ClusterSourceSet>` document into
// an erf.ClusterSourceSet. Each wrapped fault must carry exactly one
// SINGLE-magnitude MFD; erf.ClusterSourceBuilder enforces that at
// Build().
func parseClusterSourceSet(file string, data []byte, gmm *erf.GmmSet) (*erf.ClusterSourceSet, error) {
	var elem clusterSourceSetElem
	if err := xml.Unmarshal(data, &elem); err != nil {
		return nil, &erf.ParseError{File: file, Element: "ClusterSourceSet", Reason: err.Error()}
	}
	if err := requireAttrs(&elem, file, "ClusterSourceSet"); err != nil {
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

	builder := &erf.ClusterSourceSetBuilder{
		Name:   elem.Name,
		Weight: elem.Weight,
		GmmSet: gmm,
	}

	for _, cl := range elem.Clusters {
		if cl.MagFreqDist == nil {
			return nil, &erf.ParseError{File: file, Element: "Cluster", Reason: "missing cluster-rate MagFreqDist"}
		}
		clBuilder := &erf.ClusterSourceBuilder{
			Name: cl.Name,
			Rate: cl.MagFreqDist.Weight,
		}

		for _, fault := range cl.Faults {
			mfds, err := buildMfds(fault.MagFreqDist, nil)
			if err != nil {
				return nil, err
			}
			trace, err := fault.Trace.parse()
			if err != nil {
				return nil, err
			}
			clBuilder.Faults = append(clBuilder.Faults, &erf.FaultSourceBuilder{
				Name:        fault.Name,
				Trace:       trace,
				Dip:         fault.Geometry.Dip,
				Width:       fault.Geometry.Width,
				Rake:        fault.Geometry.Rake,
				Offset:      offset,
				Mfds:        mfds,
				Msr:         msr,
				MsrSet:      true,
				AspectRatio: 1.0,
				FloatStyle:  erf.FULL_DOWN_DIP,
			})
		}

		builder.Sources = append(builder.Sources, clBuilder)
	}

	return builder.Build()
}

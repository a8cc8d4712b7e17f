// Package loader traverses a forecast directory tree or zip archive and
// parses its source-model XML grammar into an erf.HazardModel. The XML
// tokenizer itself is stdlib encoding/xml.
package loader

import (
	"encoding/xml"
	"strconv"
	"strings"

	erf "github.com/sixy6e/go-erf"
)

// magFreqDistElem is the raw `<MagFreqDist>` / `<MagFreqDistRef>`
// element. Type is "GR" or "SINGLE"; A/B/MMin/MMax/DMag feed the
// Gutenberg-Richter builder, M/Weight feed the single-magnitude builder
// (Weight is taken as that magnitude's annual rate).
type magFreqDistElem struct {
	XMLName xml.Name `xml:"MagFreqDist"`
	Type    string   `xml:"type,attr" erf:"attr=type,required"`
	A       float64  `xml:"a,attr"`
	B       float64  `xml:"b,attr"`
	MMin    float64  `xml:"mMin,attr"`
	MMax    float64  `xml:"mMax,attr"`
	DMag    float64  `xml:"dMag,attr"`
	M       float64  `xml:"m,attr"`
	Floats  bool     `xml:"floats,attr"`
	Weight  float64  `xml:"weight,attr"`
}

// epistemicElem is `<Epistemic deltas weights cutoff/>`.
type epistemicElem struct {
	XMLName xml.Name `xml:"Epistemic"`
	Deltas  string   `xml:"deltas,attr"`
	Weights string   `xml:"weights,attr"`
	Cutoff  float64  `xml:"cutoff,attr"`
}

// aleatoryElem is `<Aleatory sigma count moBalance cutoff/>`.
type aleatoryElem struct {
	XMLName   xml.Name `xml:"Aleatory"`
	Sigma     float64  `xml:"sigma,attr"`
	Count     int      `xml:"count,attr"`
	MoBalance bool     `xml:"moBalance,attr"`
	Cutoff    float64  `xml:"cutoff,attr"`
}

// magUncertaintyElem is `<MagUncertainty>` wrapping an optional
// Epistemic and Aleatory child.
type magUncertaintyElem struct {
	XMLName   xml.Name       `xml:"MagUncertainty"`
	Epistemic *epistemicElem `xml:"Epistemic"`
	Aleatory  *aleatoryElem  `xml:"Aleatory"`
}

// settingsElem is `<Settings>`, a set-level default MFD plus uncertainty
// config shared by every Source in the enclosing SourceSet.
type settingsElem struct {
	XMLName        xml.Name            `xml:"Settings"`
	MagFreqDistRef *magFreqDistElem    `xml:"MagFreqDistRef>MagFreqDist"`
	MagUncertainty *magUncertaintyElem `xml:"MagUncertainty"`
}

// sourcePropertiesElem is `<SourceProperties>`: a set-level magScaling
// type, plus grid-only attributes (magDepthMap, focalMechMap, strike)
// and the offset, aspectRatio and floatStyle settings.
type sourcePropertiesElem struct {
	XMLName      xml.Name `xml:"SourceProperties"`
	MagScaling   string   `xml:"magScaling,attr"`
	MagDepthMap  string   `xml:"magDepthMap,attr"`
	FocalMechMap string   `xml:"focalMechMap,attr"`
	Strike       float64  `xml:"strike,attr"`
	Offset       float64  `xml:"offset,attr"`
	AspectRatio  float64  `xml:"aspectRatio,attr"`
	FloatStyle   string   `xml:"floatStyle,attr"`
}

// geometryElem is `<Geometry dip width rake depth/>`.
type geometryElem struct {
	XMLName xml.Name `xml:"Geometry"`
	Dip     float64  `xml:"dip,attr"`
	Width   float64  `xml:"width,attr"`
	Rake    float64  `xml:"rake,attr"`
	Depth   float64  `xml:"depth,attr"`
}

// traceElem is `<Trace>` / `<LowerTrace>`: whitespace-delimited
// `lat,lon,depth` triples.
type traceElem struct {
	Text string `xml:",chardata"`
}

// parse decodes the trace's whitespace-delimited `lat,lon,depth` triples
// into a LocationList.
func (t traceElem) parse() (erf.LocationList, error) {
	fields := strings.Fields(t.Text)
	out := make(erf.LocationList, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) != 3 {
			return nil, &erf.ParseError{Element: "Trace", Reason: "expected lat,lon,depth triple, got " + f}
		}
		lat, err1 := strconv.ParseFloat(parts[0], 64)
		lon, err2 := strconv.ParseFloat(parts[1], 64)
		depth, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, &erf.ParseError{Element: "Trace", Reason: "non-numeric coordinate in " + f}
		}
		out = append(out, erf.NewLocation(lat, lon, depth))
	}
	if len(out) < 2 {
		return nil, &erf.ParseError{Element: "Trace", Reason: "trace must have at least 2 points"}
	}
	return out, nil
}

// sourceElem is `<Source name>`: its own MFD (falling back
// to the set-level MagFreqDistRef when absent), geometry, and trace.
type sourceElem struct {
	XMLName     xml.Name         `xml:"Source"`
	Name        string           `xml:"name,attr" erf:"attr=name,required"`
	MagFreqDist *magFreqDistElem `xml:"MagFreqDist"`
	Geometry    geometryElem     `xml:"Geometry"`
	Trace       traceElem        `xml:"Trace"`
}

// faultSourceSetElem is the `<FaultSourceSet>` root element.
type faultSourceSetElem struct {
	XMLName    xml.Name             `xml:"FaultSourceSet"`
	Name       string               `xml:"name,attr" erf:"attr=name,required"`
	Weight     float64              `xml:"weight,attr" erf:"attr=weight,required"`
	Settings   settingsElem         `xml:"Settings"`
	Properties sourcePropertiesElem `xml:"SourceProperties"`
	Sources    []sourceElem         `xml:"Source"`
}

// interfaceSourceElem is an InterfaceSourceSet's `<Source>`, which adds
// `<LowerTrace>` alongside the fault grammar's `<Trace>`.
type interfaceSourceElem struct {
	XMLName     xml.Name         `xml:"Source"`
	Name        string           `xml:"name,attr" erf:"attr=name,required"`
	MagFreqDist *magFreqDistElem `xml:"MagFreqDist"`
	Geometry    geometryElem     `xml:"Geometry"`
	Trace       traceElem        `xml:"Trace"`
	LowerTrace  traceElem        `xml:"LowerTrace"`
}

type interfaceSourceSetElem struct {
	XMLName    xml.Name              `xml:"InterfaceSourceSet"`
	Name       string                `xml:"name,attr" erf:"attr=name,required"`
	Weight     float64               `xml:"weight,attr" erf:"attr=weight,required"`
	Settings   settingsElem          `xml:"Settings"`
	Properties sourcePropertiesElem  `xml:"SourceProperties"`
	Sources    []interfaceSourceElem `xml:"Source"`
}

// clusterElem is `<Cluster name weight>` with a single SINGLE MFD at
// cluster level giving the cluster rate.
type clusterElem struct {
	XMLName     xml.Name         `xml:"Cluster"`
	Name        string           `xml:"name,attr" erf:"attr=name,required"`
	Weight      float64          `xml:"weight,attr"`
	MagFreqDist *magFreqDistElem `xml:"MagFreqDist"`
	Faults      []sourceElem     `xml:"Source"`
}

type clusterSourceSetElem struct {
	XMLName    xml.Name             `xml:"ClusterSourceSet"`
	Name       string               `xml:"name,attr" erf:"attr=name,required"`
	Weight     float64              `xml:"weight,attr" erf:"attr=weight,required"`
	Settings   settingsElem         `xml:"Settings"`
	Properties sourcePropertiesElem `xml:"SourceProperties"`
	Clusters   []clusterElem        `xml:"Cluster"`
}

// nodeElem is a GridSourceSet `<Node>`: the grid grammar's stand-in for
// `<Source>`.
type nodeElem struct {
	XMLName      xml.Name         `xml:"Node"`
	Name         string           `xml:"name,attr"`
	Loc          string           `xml:"loc,attr" erf:"attr=loc,required"`
	MagFreqDist  *magFreqDistElem `xml:"MagFreqDist"`
	FocalMechMap string           `xml:"focalMechMap,attr"`
}

type gridSourceSetElem struct {
	XMLName    xml.Name             `xml:"GridSourceSet"`
	Name       string               `xml:"name,attr" erf:"attr=name,required"`
	Weight     float64              `xml:"weight,attr" erf:"attr=weight,required"`
	Variant    string               `xml:"variant,attr"`
	Settings   settingsElem         `xml:"Settings"`
	Properties sourcePropertiesElem `xml:"SourceProperties"`
	Nodes      []nodeElem           `xml:"Node"`
}

// modelElem is `<Model id weight>`.
type modelElem struct {
	XMLName xml.Name `xml:"Model"`
	Id      string   `xml:"id,attr" erf:"attr=id,required"`
	Weight  float64  `xml:"weight,attr" erf:"attr=weight,required"`
}

// uncertaintyElem is `<Uncertainty values weights/>`: values is a 1- or
// 9-element array, weights a 3-element array.
type uncertaintyElem struct {
	XMLName xml.Name `xml:"Uncertainty"`
	Values  string   `xml:"values,attr"`
	Weights string   `xml:"weights,attr"`
}

// modelSetElem is `<ModelSet maxDistance>`.
type modelSetElem struct {
	XMLName     xml.Name         `xml:"ModelSet"`
	MaxDistance float64          `xml:"maxDistance,attr" erf:"attr=maxDistance,required"`
	Models      []modelElem      `xml:"Model"`
	Uncertainty *uncertaintyElem `xml:"Uncertainty"`
}

// groundMotionModelsElem is the `<GroundMotionModels>` root, carrying up
// to two `<ModelSet>` children: primary (shorter-distance) and secondary
// (longer-distance).
type groundMotionModelsElem struct {
	XMLName   xml.Name       `xml:"GroundMotionModels"`
	ModelSets []modelSetElem `xml:"ModelSet"`
}

// sectionElem is one `<Section>` of an IndexedFaultSourceSet's
// fault_sections.xml.
type sectionElem struct {
	XMLName xml.Name  `xml:"Section"`
	Name    string    `xml:"name,attr" erf:"attr=name,required"`
	Dip     float64   `xml:"dip,attr" erf:"attr=dip,required"`
	Width   float64   `xml:"width,attr" erf:"attr=width,required"`
	Offset  float64   `xml:"offset,attr"`
	Trace   traceElem `xml:"Trace"`
}

type faultSectionsElem struct {
	XMLName  xml.Name      `xml:"FaultSections"`
	Sections []sectionElem `xml:"Section"`
}

// indexedRuptureElem is one `<Rupture>` of fault_ruptures.xml: an
// integer range-string of participating section indices plus its
// (mag, rate, depth, dip, width, rake) scalars.
type indexedRuptureElem struct {
	XMLName  xml.Name `xml:"Rupture"`
	Sections string   `xml:"sections,attr" erf:"attr=sections,required"`
	Mag      float64  `xml:"mag,attr" erf:"attr=mag,required"`
	Rate     float64  `xml:"rate,attr" erf:"attr=rate,required"`
	Depth    float64  `xml:"depth,attr"`
	Dip      float64  `xml:"dip,attr"`
	Width    float64  `xml:"width,attr"`
	Rake     float64  `xml:"rake,attr"`
}

type faultRupturesElem struct {
	XMLName  xml.Name             `xml:"FaultRuptures"`
	Name     string               `xml:"name,attr" erf:"attr=name,required"`
	Weight   float64              `xml:"weight,attr"`
	Ruptures []indexedRuptureElem `xml:"Rupture"`
}

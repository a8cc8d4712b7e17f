package loader

import (
	"strconv"
	"strings"

	erf "github.com/sixy6e/go-erf"
)

// parseFloatList parses a comma-delimited list of floats, e.g. the
// Epistemic `deltas`/`weights` attributes.
func parseFloatList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &erf.ParseError{Element: "Epistemic", Reason: "non-numeric value in list: " + p}
		}
		out[i] = v
	}
	return out, nil
}

// parseLocAttr parses a Node's `loc` attribute, "lat,lon" or
// "lat,lon,depth".
func parseLocAttr(s string) (erf.Location, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 && len(parts) != 3 {
		return erf.Location{}, &erf.ParseError{Element: "Node", Reason: "loc must be lat,lon or lat,lon,depth"}
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	depth := 0.0
	var err3 error
	if len(parts) == 3 {
		depth, err3 = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	}
	if err1 != nil || err2 != nil || err3 != nil {
		return erf.Location{}, &erf.ParseError{Element: "Node", Reason: "non-numeric loc: " + s}
	}
	return erf.NewLocation(lat, lon, depth), nil
}

// magDepthGroup is one parsed `m :: [d1:w1, d2:w2]` group of a
// `magDepthMap` attribute.
type magDepthGroup struct {
	MagCutoff float64
	Depths    []erf.DepthWeight
}

// parseMagDepthMap parses `[m1 :: [d1:w1, d2:w2]; m2 :: [d3:w3, ...]]`.
// Outer keys are magnitude cutoffs
// interpreted as strict upper bounds; inner maps give depth->weight.
func parseMagDepthMap(s string) ([]magDepthGroup, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, &erf.ParseError{Element: "magDepthMap", Reason: "empty magDepthMap"}
	}

	groups := strings.Split(s, ";")
	out := make([]magDepthGroup, 0, len(groups))
	for _, g := range groups {
		parts := strings.SplitN(g, "::", 2)
		if len(parts) != 2 {
			return nil, &erf.ParseError{Element: "magDepthMap", Reason: "expected 'm :: [depth:weight, ...]' in " + g}
		}
		mag, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, &erf.ParseError{Element: "magDepthMap", Reason: "non-numeric magnitude cutoff in " + g}
		}

		inner := strings.TrimSpace(parts[1])
		inner = strings.TrimPrefix(inner, "[")
		inner = strings.TrimSuffix(inner, "]")

		var depths []erf.DepthWeight
		for _, dw := range strings.Split(inner, ",") {
			dw = strings.TrimSpace(dw)
			if dw == "" {
				continue
			}
			kv := strings.SplitN(dw, ":", 2)
			if len(kv) != 2 {
				return nil, &erf.ParseError{Element: "magDepthMap", Reason: "expected 'depth:weight' in " + dw}
			}
			depth, err1 := strconv.ParseFloat(strings.TrimSpace(kv[0]), 64)
			weight, err2 := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
			if err1 != nil || err2 != nil {
				return nil, &erf.ParseError{Element: "magDepthMap", Reason: "non-numeric depth:weight in " + dw}
			}
			depths = append(depths, erf.DepthWeight{Depth: depth, Weight: weight})
		}

		out = append(out, magDepthGroup{MagCutoff: mag, Depths: depths})
	}
	return out, nil
}

// parseFocalMechMap parses `[STRIKE_SLIP:0.5, REVERSE:0.5, NORMAL:0.0]`.
func parseFocalMechMap(s string) (erf.FocalMechWeights, error) {
	var w erf.FocalMechWeights
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return w, &erf.ParseError{Element: "focalMechMap", Reason: "empty focalMechMap"}
	}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		kv := strings.SplitN(entry, ":", 2)
		if len(kv) != 2 {
			return w, &erf.ParseError{Element: "focalMechMap", Reason: "expected 'MECH:weight' in " + entry}
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return w, &erf.ParseError{Element: "focalMechMap", Reason: "non-numeric weight in " + entry}
		}
		switch strings.ToUpper(strings.TrimSpace(kv[0])) {
		case "STRIKE_SLIP":
			w.SS = val
		case "REVERSE":
			w.REV = val
		case "NORMAL":
			w.NOR = val
		default:
			return w, &erf.ParseError{Element: "focalMechMap", Reason: "unknown mechanism " + kv[0]}
		}
	}
	return w, nil
}

// parseRangeString decodes `[[a:b],c,[d:e]]`: `[a:b]` is an inclusive
// range that may be ascending or descending, decoded to the list order
// given.
func parseRangeString(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, &erf.ParseError{Element: "sections", Reason: "empty range string"}
	}

	var out []int
	for _, tok := range splitTopLevel(s) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			inner := strings.TrimSuffix(strings.TrimPrefix(tok, "["), "]")
			bounds := strings.SplitN(inner, ":", 2)
			if len(bounds) != 2 {
				return nil, &erf.ParseError{Element: "sections", Reason: "expected '[a:b]' in " + tok}
			}
			a, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			b, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 != nil || err2 != nil {
				return nil, &erf.ParseError{Element: "sections", Reason: "non-integer range in " + tok}
			}
			if a <= b {
				for v := a; v <= b; v++ {
					out = append(out, v)
				}
			} else {
				for v := a; v >= b; v-- {
					out = append(out, v)
				}
			}
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &erf.ParseError{Element: "sections", Reason: "non-integer entry " + tok}
		}
		out = append(out, v)
	}
	return out, nil
}

// splitTopLevel splits s on commas that are not nested inside a
// bracketed `[a:b]` range token.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

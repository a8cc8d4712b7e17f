package erf

// HazardModel is the top-level forecast container: a map from SourceType
// to an ordered set of SourceSets, plus a name. Iteration
// order is insertion order, grouped by type, so that one model may carry
// several source sets of the same type (e.g. logic-tree branches of a
// fault model).
type HazardModel struct {
	name       string
	order      []SourceType
	sourceSets map[SourceType][]SourceSet
}

// NewHazardModel returns an empty, named model ready to accumulate
// SourceSets via Add.
func NewHazardModel(name string) *HazardModel {
	return &HazardModel{name: name, sourceSets: make(map[SourceType][]SourceSet)}
}

func (m *HazardModel) Name() string { return m.name }

// Add appends a SourceSet under its own SourceType, recording first
// appearance order for that type.
func (m *HazardModel) Add(ss SourceSet) {
	t := ss.Type()
	if _, ok := m.sourceSets[t]; !ok {
		m.order = append(m.order, t)
	}
	m.sourceSets[t] = append(m.sourceSets[t], ss)
}

// SourceSets returns the SourceSets of the given type, in insertion order.
func (m *HazardModel) SourceSets(t SourceType) []SourceSet {
	return m.sourceSets[t]
}

// All returns every SourceSet in the model, grouped by type in the order
// types were first added.
func (m *HazardModel) All() []SourceSet {
	var out []SourceSet
	for _, t := range m.order {
		out = append(out, m.sourceSets[t]...)
	}
	return out
}

// Types returns the SourceTypes present in the model, in first-seen order.
func (m *HazardModel) Types() []SourceType {
	return append([]SourceType(nil), m.order...)
}

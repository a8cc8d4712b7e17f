// Package loader parses a forecast's on-disk source-model directory
// (or ZIP archive) and assembles an *erf.HazardModel.
package loader

import (
	"log"
	"strings"

	"github.com/samber/lo"

	erf "github.com/sixy6e/go-erf"
)

// typeDirs lists the first-level SourceType directory names the loader
// recognizes.
var typeDirs = map[string]erf.SourceType{
	"Fault":     erf.FAULT,
	"Interface": erf.INTERFACE,
	"Cluster":   erf.CLUSTER,
	"Grid":      erf.GRID,
	"Slab":      erf.SLAB,
	"System":    erf.SYSTEM,
	"Area":      erf.AREA,
}

const gmmFileName = "gmm.xml"

// Load traverses tree and assembles an *erf.HazardModel. It is
// single-use: call it once per SourceTree. Any failure is fatal; the
// loader never attempts local recovery and re-raises the first error
// encountered.
func Load(name string, tree SourceTree) (*erf.HazardModel, error) {
	rootDirs, rootFiles, err := tree.List("")
	if err != nil {
		return nil, fatal(&erf.ConfigError{Path: "", Reason: err.Error()})
	}
	if len(rootDirs) == 0 && len(rootFiles) == 0 {
		return nil, fatal(&erf.ConfigError{Path: "", Reason: "empty forecast tree"})
	}

	model := erf.NewHazardModel(name)

	for _, dir := range rootDirs {
		base := tree.Base(dir)
		sourceType, ok := typeDirs[base]
		if !ok {
			continue
		}
		if err := loadTypeDir(tree, dir, sourceType, nil, model); err != nil {
			return nil, fatal(err)
		}
	}

	if len(model.All()) == 0 {
		return nil, fatal(&erf.ConfigError{Path: "", Reason: "forecast produced no source sets"})
	}

	logSummary(model)
	return model, nil
}

// fatal logs err at the loader's SEVERE-equivalent level before
// re-raising it.
func fatal(err error) error {
	log.Printf("FATAL: %v", err)
	return err
}

// loadTypeDir loads every source-set document directly under dir, whose
// SourceType is already known from the directory name, resolving the
// nearest gmm.xml (this directory's own, else the first ancestor's,
// threaded down via parentGmm) before parsing. Nested subdirectories
// may supply their own gmm.xml overrides.
func loadTypeDir(tree SourceTree, dir string, sourceType erf.SourceType, parentGmm *erf.GmmSet, model *erf.HazardModel) error {
	gmm, err := resolveGmm(tree, dir, parentGmm)
	if err != nil {
		return err
	}

	dirs, files, err := tree.List(dir)
	if err != nil {
		return &erf.ConfigError{Path: dir, Reason: err.Error()}
	}

	sourceFiles := filterSourceFiles(tree, files, sourceType)
	if gmm == nil && len(sourceFiles) > 0 {
		return &erf.ConfigError{Path: dir, Reason: "missing gmm.xml for " + dir}
	}

	for _, file := range sourceFiles {
		data, err := tree.ReadFile(file)
		if err != nil {
			return &erf.ConfigError{Path: file, Reason: err.Error()}
		}
		if err := parseAndAdd(file, data, sourceType, gmm, model); err != nil {
			return err
		}
	}

	if sourceType == erf.SYSTEM {
		if err := loadIndexedFaultSet(tree, dir, gmm, model); err != nil {
			return err
		}
	}

	for _, sub := range dirs {
		if err := loadTypeDir(tree, sub, sourceType, gmm, model); err != nil {
			return err
		}
	}

	return nil
}

// filterSourceFiles keeps the *.xml files belonging to the given
// SourceType's single-file grammar, excluding the gmm.xml and (for
// SYSTEM) the two-file fault_sections.xml/fault_ruptures.xml pair which
// are handled separately by loadIndexedFaultSet.
func filterSourceFiles(tree SourceTree, files []string, sourceType erf.SourceType) []string {
	return lo.Filter(files, func(f string, _ int) bool {
		base := tree.Base(f)
		if base == gmmFileName {
			return false
		}
		if !strings.HasSuffix(strings.ToLower(base), ".xml") {
			return false
		}
		if sourceType == erf.SYSTEM && (base == "fault_sections.xml" || base == "fault_ruptures.xml") {
			return false
		}
		return true
	})
}

// loadIndexedFaultSet handles the SYSTEM type's two-file split.
func loadIndexedFaultSet(tree SourceTree, dir string, gmm *erf.GmmSet, model *erf.HazardModel) error {
	_, files, err := tree.List(dir)
	if err != nil {
		return &erf.ConfigError{Path: dir, Reason: err.Error()}
	}

	var sectionsFile, rupturesFile string
	for _, f := range files {
		switch tree.Base(f) {
		case "fault_sections.xml":
			sectionsFile = f
		case "fault_ruptures.xml":
			rupturesFile = f
		}
	}
	if sectionsFile == "" || rupturesFile == "" {
		return nil
	}
	if gmm == nil {
		return &erf.ConfigError{Path: dir, Reason: "missing gmm.xml for " + dir}
	}

	sectionsData, err := tree.ReadFile(sectionsFile)
	if err != nil {
		return &erf.ConfigError{Path: sectionsFile, Reason: err.Error()}
	}
	rupturesData, err := tree.ReadFile(rupturesFile)
	if err != nil {
		return &erf.ConfigError{Path: rupturesFile, Reason: err.Error()}
	}

	set, err := parseIndexedFaultSourceSet(sectionsFile, sectionsData, rupturesFile, rupturesData, gmm)
	if err != nil {
		return err
	}
	model.Add(set)
	return nil
}

// parseAndAdd dispatches file to its SourceType-specific parser and adds
// the resulting SourceSet to model.
func parseAndAdd(file string, data []byte, sourceType erf.SourceType, gmm *erf.GmmSet, model *erf.HazardModel) error {
	switch sourceType {
	case erf.FAULT:
		set, err := parseFaultSourceSet(file, data, gmm)
		if err != nil {
			return err
		}
		model.Add(set)
	case erf.INTERFACE:
		set, err := parseInterfaceSourceSet(file, data, gmm)
		if err != nil {
			return err
		}
		model.Add(set)
	case erf.CLUSTER:
		set, err := parseClusterSourceSet(file, data, gmm)
		if err != nil {
			return err
		}
		model.Add(set)
	case erf.GRID:
		set, err := parseGridSourceSet(file, data, gmm)
		if err != nil {
			return err
		}
		model.Add(set)
	case erf.SLAB:
		set, err := parseSlabSourceSet(file, data, gmm)
		if err != nil {
			return err
		}
		model.Add(set)
	default:
		return &erf.ConfigError{Path: file, Reason: "unsupported source type for file"}
	}
	return nil
}

// resolveGmm finds the gmm.xml governing dir: its own if present,
// otherwise the nearest ancestor's. parent carries the
// already-resolved ancestor value down the recursion in loadTypeDir's
// caller chain; top-level calls pass nil.
func resolveGmm(tree SourceTree, dir string, parent *erf.GmmSet) (*erf.GmmSet, error) {
	_, files, err := tree.List(dir)
	if err != nil {
		return nil, &erf.ConfigError{Path: dir, Reason: err.Error()}
	}
	for _, f := range files {
		if tree.Base(f) == gmmFileName {
			data, err := tree.ReadFile(f)
			if err != nil {
				return nil, &erf.ConfigError{Path: f, Reason: err.Error()}
			}
			return parseGmmXml(f, data)
		}
	}
	return parent, nil
}

// logSummary writes the success summary block enumerating source-set
// sizes.
func logSummary(model *erf.HazardModel) {
	log.Printf("loaded forecast %q", model.Name())
	for _, t := range model.Types() {
		sets := model.SourceSets(t)
		total := lo.SumBy(sets, func(s erf.SourceSet) int { return len(s.Sources()) })
		log.Printf("  %s: %d source set(s), %d source(s)", t, len(sets), total)
	}
}

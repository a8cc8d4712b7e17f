package loader

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	erf "github.com/sixy6e/go-erf"
)

// memTree is an in-memory SourceTree fixture for exercising Load without
// a real filesystem, object store, or ZIP archive.
type memTree struct {
	files map[string]string
}

func newMemTree(files map[string]string) *memTree {
	return &memTree{files: files}
}

func (t *memTree) List(dir string) (dirs, files []string, err error) {
	dir = strings.Trim(dir, "/")
	seenDirs := map[string]bool{}
	for name := range t.files {
		rel := name
		if dir != "" {
			if !strings.HasPrefix(name, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(name, dir+"/")
		}
		parts := strings.SplitN(rel, "/", 2)
		if len(parts) == 1 {
			files = append(files, name)
			continue
		}
		childDir := parts[0]
		if seenDirs[childDir] {
			continue
		}
		seenDirs[childDir] = true
		if dir == "" {
			dirs = append(dirs, childDir)
		} else {
			dirs = append(dirs, dir+"/"+childDir)
		}
	}
	return dirs, files, nil
}

func (t *memTree) ReadFile(file string) ([]byte, error) {
	data, ok := t.files[file]
	if !ok {
		return nil, &erf.ParseError{File: file, Reason: "not found"}
	}
	return []byte(data), nil
}

func (t *memTree) Base(file string) string { return path.Base(file) }
func (t *memTree) Join(elems ...string) string { return path.Join(elems...) }
func (t *memTree) Close() error                { return nil }

const testGmm = `<GroundMotionModels>
  <ModelSet maxDistance="200">
    <Model id="ASK14" weight="0.5"/>
    <Model id="CB14" weight="0.5"/>
  </ModelSet>
</GroundMotionModels>`

const testFaultSet = `<FaultSourceSet name="Test Fault Set" weight="1.0">
  <Settings>
    <MagFreqDistRef>
      <MagFreqDist type="GR" a="4.0" b="1.0" mMin="6.0" mMax="7.0" dMag="0.1"/>
    </MagFreqDistRef>
  </Settings>
  <SourceProperties magScaling="WC1994_LENGTH"/>
  <Source name="Fault A">
    <Geometry dip="90" width="15" rake="0"/>
    <Trace>-31.0,115.0,0 -31.2,115.3,0</Trace>
  </Source>
</FaultSourceSet>`

func TestLoadFaultSourceSet(t *testing.T) {
	tree := newMemTree(map[string]string{
		"Fault/gmm.xml":        testGmm,
		"Fault/fault_set.xml":  testFaultSet,
	})

	model, err := Load("test", tree)
	require.NoError(t, err)

	sets := model.SourceSets(erf.FAULT)
	require.Len(t, sets, 1)
	assert.Equal(t, "Test Fault Set", sets[0].Name())
	assert.NotEmpty(t, sets[0].Sources())
}

func TestLoadEmptyTree(t *testing.T) {
	tree := newMemTree(map[string]string{})
	_, err := Load("test", tree)
	require.Error(t, err)
	var cfgErr *erf.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadMissingGmm(t *testing.T) {
	tree := newMemTree(map[string]string{
		"Fault/fault_set.xml": testFaultSet,
	})
	_, err := Load("test", tree)
	require.Error(t, err)
	var cfgErr *erf.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadNestedGmmOverride(t *testing.T) {
	tree := newMemTree(map[string]string{
		"Fault/gmm.xml":              testGmm,
		"Fault/sub/gmm.xml":          testGmm,
		"Fault/sub/fault_set.xml":    testFaultSet,
	})
	model, err := Load("test", tree)
	require.NoError(t, err)
	assert.Len(t, model.SourceSets(erf.FAULT), 1)
}

func TestLoadIndexedFaultSourceSet(t *testing.T) {
	sections := `<FaultSections>
  <Section name="S0" dip="90" width="15">
    <Trace>-31.0,115.0,0 -31.2,115.3,0</Trace>
  </Section>
  <Section name="S1" dip="90" width="15">
    <Trace>-31.2,115.3,0 -31.4,115.6,0</Trace>
  </Section>
  <Section name="S2" dip="90" width="15">
    <Trace>-31.4,115.6,0 -31.6,115.9,0</Trace>
  </Section>
</FaultSections>`

	ruptures := `<FaultRuptures name="UCERF-like" weight="1.0">
  <Rupture sections="[0,1]" mag="7.0" rate="1e-4" rake="0" dip="90" width="15"/>
  <Rupture sections="[[0:2]]" mag="7.5" rate="5e-5" rake="0" dip="90" width="15"/>
</FaultRuptures>`

	tree := newMemTree(map[string]string{
		"System/gmm.xml":              testGmm,
		"System/fault_sections.xml":   sections,
		"System/fault_ruptures.xml":   ruptures,
	})

	model, err := Load("test", tree)
	require.NoError(t, err)

	sets := model.SourceSets(erf.SYSTEM)
	require.Len(t, sets, 1)
	sys, ok := sets[0].(*erf.SystemSourceSet)
	require.True(t, ok)
	assert.Equal(t, 3, sys.NumSections())
	assert.Equal(t, 2, sys.NumRuptures())
}

package erf

import (
	"errors"
	"fmt"
)

// Sentinel errors for the empty-set and construction-failure cases.
// Additional context is attached with errors.Join at the call site.
var (
	ErrEmptyMfd         = errors.New("mfd: zero magnitude bins")
	ErrEmptySourceSet   = errors.New("source set: zero sources")
	ErrBuildAlreadyUsed = errors.New("builder: build() already called")
	ErrNoMsr            = errors.New("fault source: magnitude-scaling relation is required")
	ErrShortTrace       = errors.New("trace: fewer than 2 points")
	ErrBadDip           = errors.New("dip outside [0, 90] degrees")
	ErrBadRake          = errors.New("rake outside [-180, 180] degrees")
	ErrNoMfds           = errors.New("source: no magnitude-frequency distributions supplied")
	ErrClusterIteration = errors.New("cluster source: iteration is unsupported; use the joint-probability formula")
)

// ConfigError reports a problem with the forecast location or layout
// supplied to the loader: a missing path, an empty forecast tree, or a
// missing gmm.xml where source files are present.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error at %q: %s", e.Path, e.Reason)
}

// ParseError reports an XML parsing failure, analogous to a SAX parse
// exception: the offending file, its line/column, and the element name.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Element string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s:%d:%d <%s>: %s", e.File, e.Line, e.Column, e.Element, e.Reason)
}

// ValidationError reports a builder-time invariant violation: bad
// weights, out-of-range angles, incomplete mag-depth tables, and so on.
type ValidationError struct {
	Component string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Component, e.Reason)
}

// Package integrity cross-checks a loaded declaration model against the
// handler registry: every declared implementation must be registered, live
// in the declared source file, and expose the declared parameter surface.
// Findings are grouped by category and reported exhaustively; integrity
// problems never abort anything by themselves.
package integrity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/registry"
)

// Report categories. Each maps to a list of human-readable findings.
const (
	TransformFunctions  = "transform_functions"
	TransformLocations  = "transform_locations"
	TransformSignatures = "transform_signatures"
	CheckFunctions      = "check_functions"
	CheckLocations      = "check_locations"
	GeneratorFunctions  = "generator_functions"
	GeneratorLocations  = "generator_locations"
	GeneratorSignatures = "generator_signatures"
	StubImplementations = "stub_implementations"
)

// Report maps a finding category to its messages. Categories with no
// findings are absent.
type Report map[string][]string

// Clean reports whether no findings were recorded.
func (r Report) Clean() bool { return len(r) == 0 }

// Total counts findings across all categories.
func (r Report) Total() int {
	n := 0
	for _, msgs := range r {
		n += len(msgs)
	}
	return n
}

func (r Report) add(category, format string, args ...any) {
	r[category] = append(r[category], fmt.Sprintf(format, args...))
}

// Options selects which integrity checks run. The zero value runs only the
// function-resolution checks.
type Options struct {
	// CheckLocations verifies each handler's registered source file ends
	// with the declared file path.
	CheckLocations bool

	// CheckSignatures compares declared parameter names against the
	// handler's tagged params-struct fields.
	CheckSignatures bool

	// FlagStubs reports handlers registered as stubs.
	FlagStubs bool
}

// Validate runs the configured checks for every declared check, generator
// and transform, and returns all findings at once.
func Validate(model *config.Model, reg *registry.Registry, opts Options) Report {
	report := make(Report)

	for _, c := range model.Checks {
		h, err := reg.ResolveCheck(c.Impl)
		if err != nil {
			report.add(CheckFunctions, "check '%s': %v", c.ID, err)
			continue
		}
		if opts.CheckLocations && !locationMatches(c.FilePath, h.SourceFile()) {
			report.add(CheckLocations,
				"check '%s': declared in '%s' but registered from '%s'",
				c.ID, c.FilePath, h.SourceFile())
		}
		if opts.FlagStubs && h.Stub {
			report.add(StubImplementations, "check '%s': implementation '%s' is a stub", c.ID, c.Impl)
		}
	}

	for _, g := range model.Generators {
		h, err := reg.ResolveGenerator(g.Impl)
		if err != nil {
			report.add(GeneratorFunctions, "generator '%s': %v", g.ID, err)
			continue
		}
		if opts.CheckLocations && !locationMatches(g.FilePath, h.SourceFile()) {
			report.add(GeneratorLocations,
				"generator '%s': declared in '%s' but registered from '%s'",
				g.ID, g.FilePath, h.SourceFile())
		}
		if opts.CheckSignatures {
			declared := declaredNames(g.Params, 0)
			if got := h.ParamNames(); !slices.Equal(declared, got) {
				report.add(GeneratorSignatures,
					"generator '%s': declared parameters %v but handler accepts %v",
					g.ID, declared, got)
			}
		}
		if opts.FlagStubs && h.Stub {
			report.add(StubImplementations, "generator '%s': implementation '%s' is a stub", g.ID, g.Impl)
		}
	}

	for _, t := range model.Transforms {
		h, err := reg.ResolveTransform(t.Impl)
		if err != nil {
			report.add(TransformFunctions, "transform '%s': %v", t.ID, err)
			continue
		}
		if opts.CheckLocations && !locationMatches(t.FilePath, h.SourceFile()) {
			report.add(TransformLocations,
				"transform '%s': declared in '%s' but registered from '%s'",
				t.ID, t.FilePath, h.SourceFile())
		}
		if opts.CheckSignatures {
			// the first declared parameter is the pipeline data input and
			// has no counterpart in the params struct
			declared := declaredNames(t.Params, 1)
			if got := h.ParamNames(); !slices.Equal(declared, got) {
				report.add(TransformSignatures,
					"transform '%s': declared parameters %v but handler accepts %v",
					t.ID, declared, got)
			}
		}
		if opts.FlagStubs && h.Stub {
			report.add(StubImplementations, "transform '%s': implementation '%s' is a stub", t.ID, t.Impl)
		}
	}

	return report
}

// declaredNames returns the sorted parameter names after skipping the first
// `skip` declarations.
func declaredNames(params []config.ParameterDecl, skip int) []string {
	if len(params) <= skip {
		return nil
	}
	names := make([]string, 0, len(params)-skip)
	for _, p := range params[skip:] {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}

// locationMatches compares a declared repository-relative path with the
// absolute source file captured at registration. An empty declared path
// skips the check.
func locationMatches(declared, registered string) bool {
	if declared == "" {
		return true
	}
	return strings.HasSuffix(registered, declared)
}

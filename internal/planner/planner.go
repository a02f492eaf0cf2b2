// Package planner turns a declaration model and an execution config into a
// concrete execution plan. Planning is atomic: every declaration, selection
// and parameter problem is collected before anything runs, and a plan is
// only produced when the collected list is empty.
package planner

import (
	"context"
	"slices"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/diag"
	"github.com/pipewright/pipewright/internal/params"
	"github.com/pipewright/pipewright/internal/registry"
	"github.com/pipewright/pipewright/internal/resolve"
	"github.com/pipewright/pipewright/internal/selection"
)

// Options tunes how far Build validates beyond the declarations themselves.
type Options struct {
	// CheckImplementations verifies that every selected transform has a
	// registered handler in Registry.
	CheckImplementations bool

	// RejectStubs additionally fails planning when a selected handler is
	// registered as a stub. Only meaningful with CheckImplementations.
	RejectStubs bool

	Registry *registry.Registry
}

// Entry is one fully resolved step of an execution plan.
type Entry struct {
	StageID     string
	TransformID string
	Params      map[string]any
}

// Plan is an ordered sequence of entries: explicit selections in config
// order, followed by auto-selected single-mode stages in declaration order.
// Plans are freshly allocated per Build call and never mutated afterwards.
type Plan struct {
	Entries []Entry
}

// Build validates cfg against model and produces an execution plan.
//
// Either the returned plan is non-nil and the issue list empty, or the plan
// is nil and the list holds every problem found. Partial plans are never
// returned.
func Build(ctx context.Context, model *config.Model, cfg *config.ExecutionConfig, opts Options) (*Plan, diag.List) {
	log := ctxlog.FromContext(ctx)
	issues := ValidateDeclarations(model)

	resolved := make(map[string]config.StageDecl, len(model.Stages))
	for _, stage := range model.Stages {
		resolved[stage.ID] = resolve.WithDefaults(stage, model.Transforms)
	}

	selected := make(map[string]int)
	var explicit, auto []Entry

	for _, sel := range cfg.Selections {
		stage, ok := resolved[sel.StageID]
		if !ok {
			issues.Add(diag.Selection, sel.StageID,
				"unknown stage '%s' in execution config", sel.StageID)
			continue
		}
		selected[sel.StageID]++

		if !slices.Contains(stage.Candidates, sel.TransformID) {
			issues.Add(diag.Selection, sel.StageID+"/"+sel.TransformID,
				"transform '%s' is not a candidate for stage '%s' (candidates: %v)",
				sel.TransformID, sel.StageID, stage.Candidates)
			continue
		}

		decl, ok := model.Transform(sel.TransformID)
		if !ok {
			// Already reported by ValidateDeclarations via the
			// candidate list check.
			continue
		}

		merged, paramIssues := params.Resolve(decl, sel.Overrides)
		issues.Extend(paramIssues)
		issues.Extend(opts.checkImplementation(decl))
		if paramIssues.HasErrors() {
			continue
		}
		explicit = append(explicit, Entry{
			StageID:     sel.StageID,
			TransformID: sel.TransformID,
			Params:      merged,
		})
	}

	for _, stage := range model.Stages {
		stage = resolved[stage.ID]
		count := selected[stage.ID]

		if len(stage.Candidates) == 0 {
			issues.Add(diag.Selection, stage.ID,
				"stage '%s': no transform candidates found for input %s → output %s",
				stage.ID, stage.Input, stage.Output)
			continue
		}

		if count > 0 {
			issues.Extend(selection.ValidateMode(stage, count))
			continue
		}

		switch stage.Mode {
		case config.ModeSingle:
			if len(stage.Candidates) != 1 {
				issues.Add(diag.Selection, stage.ID,
					"stage '%s' has %d candidates; an explicit selection is required",
					stage.ID, len(stage.Candidates))
				continue
			}
			decl, ok := model.Transform(stage.Candidates[0])
			if !ok {
				continue
			}
			merged, paramIssues := params.Resolve(decl, nil)
			issues.Extend(paramIssues)
			issues.Extend(opts.checkImplementation(decl))
			if paramIssues.HasErrors() {
				continue
			}
			auto = append(auto, Entry{
				StageID:     stage.ID,
				TransformID: decl.ID,
				Params:      merged,
			})
		default:
			issues.Extend(selection.ValidateMode(stage, 0))
		}
	}

	if issues.HasErrors() {
		return nil, issues
	}

	plan := &Plan{Entries: append(explicit, auto...)}
	log.Debug("execution plan built",
		"config", cfg.Name,
		"entries", len(plan.Entries),
		"explicit", len(explicit),
		"auto_selected", len(auto))
	return plan, nil
}

// checkImplementation verifies selected handlers exist (and optionally are
// not stubs) when the options ask for it.
func (o Options) checkImplementation(decl config.TransformDecl) diag.List {
	var issues diag.List
	if !o.CheckImplementations || o.Registry == nil {
		return issues
	}
	if _, err := o.Registry.ResolveTransform(decl.Impl); err != nil {
		issues.Add(diag.Execution, decl.ID, "transform '%s': %v", decl.ID, err)
		return issues
	}
	if o.RejectStubs && o.Registry.IsStub(decl.Impl) {
		issues.Add(diag.Integrity, decl.ID,
			"transform '%s': implementation '%s' is registered as a stub",
			decl.ID, decl.Impl)
	}
	return issues
}

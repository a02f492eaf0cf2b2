// Package resolve implements candidate resolution: deciding which declared
// transforms are eligible to run in a given stage.
package resolve

import (
	"github.com/pipewright/pipewright/internal/config"
)

// Candidates returns the transform ids eligible for the stage.
//
// An explicit candidate list on the stage wins unconditionally and is
// returned as declared. Otherwise a transform qualifies iff it has at
// least one parameter, its first parameter's type equals the stage input,
// and its return type equals the stage output. Matching is exact string
// equality on the first parameter only; parameters beyond the first never
// participate in candidate matching.
//
// An empty result is not an error here: the planner decides whether an
// empty candidate set for a referenced stage is fatal.
func Candidates(stage config.StageDecl, transforms []config.TransformDecl) []string {
	if len(stage.Candidates) > 0 {
		out := make([]string, len(stage.Candidates))
		copy(out, stage.Candidates)
		return out
	}

	var matched []string
	for _, transform := range transforms {
		if len(transform.Params) == 0 {
			continue
		}
		if transform.Params[0].Type != stage.Input {
			continue
		}
		if transform.Returns != stage.Output {
			continue
		}
		matched = append(matched, transform.ID)
	}
	return matched
}

// WithDefaults returns a copy of the stage with its candidate list
// populated and, when DefaultTransform is unset, backfilled with the first
// resolved candidate. The shared declaration is never mutated, so repeated
// and concurrent calls over the same declarations converge on the same
// result.
func WithDefaults(stage config.StageDecl, transforms []config.TransformDecl) config.StageDecl {
	resolved := stage
	resolved.Candidates = Candidates(stage, transforms)
	if resolved.DefaultTransform == "" && len(resolved.Candidates) > 0 {
		resolved.DefaultTransform = resolved.Candidates[0]
	}
	return resolved
}

package planner

import (
	"slices"

	"github.com/pipewright/pipewright/internal/catalog"
	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/diag"
	"github.com/pipewright/pipewright/internal/resolve"
)

// ValidateDeclarations re-checks the referential integrity of a loaded model:
// unique ids, resolvable type references, candidate lists naming declared
// transforms, and default transforms that are members of their candidate
// set. Loaders establish most of this already; planning re-validates
// defensively because models may also be constructed in code.
func ValidateDeclarations(model *config.Model) diag.List {
	var issues diag.List
	types := catalog.New(model.Datatypes)

	checkDuplicates(&issues, "datatype", func(yield func(string)) {
		for _, d := range model.Datatypes {
			yield(d.ID)
		}
	})
	checkDuplicates(&issues, "transform", func(yield func(string)) {
		for _, t := range model.Transforms {
			yield(t.ID)
		}
	})
	checkDuplicates(&issues, "stage", func(yield func(string)) {
		for _, s := range model.Stages {
			yield(s.ID)
		}
	})
	checkDuplicates(&issues, "check", func(yield func(string)) {
		for _, c := range model.Checks {
			yield(c.ID)
		}
	})
	checkDuplicates(&issues, "generator", func(yield func(string)) {
		for _, g := range model.Generators {
			yield(g.ID)
		}
	})

	for _, t := range model.Transforms {
		for _, p := range t.Params {
			checkTypeRef(&issues, types, "transform '"+t.ID+"' parameter '"+p.Name+"'", t.ID, p.Type)
		}
		checkTypeRef(&issues, types, "transform '"+t.ID+"' return", t.ID, t.Returns)
	}
	for _, g := range model.Generators {
		for _, p := range g.Params {
			checkTypeRef(&issues, types, "generator '"+g.ID+"' parameter '"+p.Name+"'", g.ID, p.Type)
		}
		checkTypeRef(&issues, types, "generator '"+g.ID+"' return", g.ID, g.Returns)
	}

	for _, stage := range model.Stages {
		checkTypeRef(&issues, types, "stage '"+stage.ID+"' input", stage.ID, stage.Input)
		checkTypeRef(&issues, types, "stage '"+stage.ID+"' output", stage.ID, stage.Output)

		if !stage.Mode.Valid() {
			issues.Add(diag.Declaration, stage.ID,
				"stage '%s': unsupported selection_mode '%s'", stage.ID, stage.Mode)
		}
		if stage.MaxSelect != nil && *stage.MaxSelect < 1 {
			issues.Add(diag.Declaration, stage.ID,
				"stage '%s': max_select must be positive, got %d", stage.ID, *stage.MaxSelect)
		}

		for _, cand := range stage.Candidates {
			if _, ok := model.Transform(cand); !ok {
				issues.Add(diag.Declaration, stage.ID+"/"+cand,
					"stage '%s': candidate '%s' is not a declared transform", stage.ID, cand)
			}
		}

		if stage.DefaultTransform != "" {
			cands := resolve.Candidates(stage, model.Transforms)
			if !slices.Contains(cands, stage.DefaultTransform) {
				issues.Add(diag.Declaration, stage.ID,
					"stage '%s': default transform '%s' is not among candidates %v",
					stage.ID, stage.DefaultTransform, cands)
			}
		}
	}

	return issues
}

func checkDuplicates(issues *diag.List, kind string, ids func(yield func(string))) {
	seen := make(map[string]bool)
	ids(func(id string) {
		if seen[id] {
			issues.Add(diag.Declaration, id, "duplicate %s id '%s'", kind, id)
		}
		seen[id] = true
	})
}

func checkTypeRef(issues *diag.List, types *catalog.Catalog, where, id string, ref config.TypeRef) {
	if ref == "" {
		issues.Add(diag.Declaration, id, "%s: missing type reference", where)
		return
	}
	if !types.Resolvable(ref) {
		issues.Add(diag.Declaration, id, "%s: unresolvable type reference '%s'", where, ref)
	}
}

// Package selection enforces the per-stage cardinality rules a stage's
// selection mode imposes on user selections.
package selection

import (
	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/diag"
)

// ValidateMode checks the number of user selections for a stage against the
// stage's selection mode. It is a pure function of the declaration and the
// count; all findings are returned, none raised.
func ValidateMode(stage config.StageDecl, count int) diag.List {
	var issues diag.List

	switch stage.Mode {
	case config.ModeSingle:
		// Single stages are auto-selected; configs must not name them more
		// than once.
		if count > 1 {
			issues.Add(diag.Selection, stage.ID,
				"stage '%s' has selection_mode 'single' but config specifies %d selections; remove the explicit selection (auto-selected)",
				stage.ID, count)
		}
	case config.ModeExclusive:
		if count != 1 {
			issues.Add(diag.Selection, stage.ID,
				"stage '%s' has selection_mode 'exclusive' and requires exactly 1 selection, got %d",
				stage.ID, count)
		}
	case config.ModeMultiple:
		if count < 1 {
			issues.Add(diag.Selection, stage.ID,
				"stage '%s' requires at least 1 selection, got %d", stage.ID, count)
		}
		if stage.MaxSelect != nil && count > *stage.MaxSelect {
			issues.Add(diag.Selection, stage.ID,
				"stage '%s' allows at most %d selections, got %d", stage.ID, *stage.MaxSelect, count)
		}
	default:
		issues.Add(diag.Declaration, stage.ID,
			"stage '%s' has unsupported selection_mode '%s'", stage.ID, stage.Mode)
	}

	return issues
}

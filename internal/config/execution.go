package config

// Selection is a user's choice of one transform to run for a stage, with a
// flat map of parameter overrides. Selections arrive in the order the user
// wrote them; that order is preserved into the execution plan.
type Selection struct {
	StageID     string
	TransformID string
	Overrides   map[string]any
}

// ExecutionConfig is the parsed form of a user execution config document.
type ExecutionConfig struct {
	Name        string
	Description string
	// BaseSpec is the path to the specification the config was written
	// against, as recorded in the document.
	BaseSpec   string
	Selections []Selection
}

// SelectionsFor returns the selections naming the given stage, in config
// order.
func (c *ExecutionConfig) SelectionsFor(stageID string) []Selection {
	var out []Selection
	for _, sel := range c.Selections {
		if sel.StageID == stageID {
			out = append(out, sel)
		}
	}
	return out
}

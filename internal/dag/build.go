package dag

import (
	"context"
	"fmt"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
)

// FromStages constructs a validated stage graph from the declared stage
// list. An edge runs from each stage to the next declared stage whenever
// the earlier stage's output type equals the later stage's input type; the
// declaration order carries the adjacency, matching how specs are written.
//
// Cycles cannot arise from this construction, but the check runs anyway so
// inconsistent declarations fail here rather than mid-execution.
func FromStages(ctx context.Context, stages []config.StageDecl) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building stage graph.", "stage_count", len(stages))

	graph := New()
	for _, stage := range stages {
		graph.AddNode(stage.ID)
	}

	for i := 0; i+1 < len(stages); i++ {
		current, next := stages[i], stages[i+1]
		if current.Output != next.Input {
			logger.Debug("No edge between stages: type contract does not connect.",
				"from", current.ID, "from_output", current.Output,
				"to", next.ID, "to_input", next.Input)
			continue
		}
		if err := graph.AddEdge(current.ID, next.ID); err != nil {
			return nil, fmt.Errorf("linking stage '%s' to '%s': %w", current.ID, next.ID, err)
		}
	}

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating stage graph: %w", err)
	}

	logger.Debug("Stage graph construction successful.")
	return graph, nil
}

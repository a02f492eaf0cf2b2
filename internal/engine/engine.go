// Package engine executes a built plan over the declared stage graph. Stages
// run strictly sequentially in topological order; within a stage, entries
// run in plan order and each receives the previous entry's output.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/dag"
	"github.com/pipewright/pipewright/internal/planner"
	"github.com/pipewright/pipewright/internal/registry"
)

// StageState tracks where a stage is in its lifecycle during a run.
type StageState string

const (
	StatePending   StageState = "pending"
	StateRunning   StageState = "running"
	StateCompleted StageState = "completed"
	StateFailed    StageState = "failed"
)

// Options controls a single run.
type Options struct {
	// CollectAll retains every stage's output in the result, regardless of
	// each stage's collect_output flag.
	CollectAll bool

	// Trace records a human-readable line per entry start and outcome.
	Trace bool
}

// Result is the outcome of one run. On failure the error from Run is
// non-nil and Result still carries whatever intermediates and trace lines
// were produced before the failing stage.
type Result struct {
	RunID         uuid.UUID
	Value         any
	Intermediates map[string]any
	Trace         []string
	States        map[string]StageState
}

// Preview is one step of a dry run: which transform would execute for which
// stage, without invoking anything.
type Preview struct {
	StageID     string
	TransformID string
}

// Engine runs plans against a model's stage declarations and a handler
// registry. An Engine is stateless across runs; every Run allocates its own
// result and graph.
type Engine struct {
	model    *config.Model
	registry *registry.Registry
}

func New(model *config.Model, reg *registry.Registry) *Engine {
	return &Engine{model: model, registry: reg}
}

// stageOrder builds the stage graph and groups plan entries by stage in
// topological order. Stages without plan entries are skipped.
func (e *Engine) stageOrder(ctx context.Context, plan *planner.Plan) ([]config.StageDecl, map[string][]planner.Entry, error) {
	graph, err := dag.FromStages(ctx, e.model.Stages)
	if err != nil {
		return nil, nil, err
	}
	order, err := graph.TopoOrder()
	if err != nil {
		return nil, nil, err
	}

	byStage := make(map[string][]planner.Entry)
	for _, entry := range plan.Entries {
		if _, ok := e.model.Stage(entry.StageID); !ok {
			return nil, nil, fmt.Errorf("plan references undeclared stage '%s'", entry.StageID)
		}
		byStage[entry.StageID] = append(byStage[entry.StageID], entry)
	}

	var stages []config.StageDecl
	for _, id := range order {
		if len(byStage[id]) == 0 {
			continue
		}
		stage, _ := e.model.Stage(id)
		stages = append(stages, stage)
	}
	return stages, byStage, nil
}

// DryRun returns the ordered steps the plan would execute, without invoking
// any implementation.
func (e *Engine) DryRun(ctx context.Context, plan *planner.Plan) ([]Preview, error) {
	stages, byStage, err := e.stageOrder(ctx, plan)
	if err != nil {
		return nil, err
	}

	var previews []Preview
	for _, stage := range stages {
		for _, entry := range byStage[stage.ID] {
			previews = append(previews, Preview{StageID: stage.ID, TransformID: entry.TransformID})
		}
	}
	return previews, nil
}

// Run executes the plan over the initial data value. Execution is fail-fast:
// the first failing entry aborts the run, and the returned Result keeps the
// intermediates collected up to that point.
func (e *Engine) Run(ctx context.Context, plan *planner.Plan, initial any, opts Options) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	result := &Result{
		RunID:         uuid.New(),
		Value:         initial,
		Intermediates: make(map[string]any),
		States:        make(map[string]StageState),
	}

	stages, byStage, err := e.stageOrder(ctx, plan)
	if err != nil {
		return result, err
	}
	for _, stage := range stages {
		result.States[stage.ID] = StatePending
	}

	log = log.With("run_id", result.RunID)
	log.Info("run starting", "stages", len(stages), "entries", len(plan.Entries))

	current := initial
	for _, stage := range stages {
		result.States[stage.ID] = StateRunning

		for _, entry := range byStage[stage.ID] {
			decl, ok := e.model.Transform(entry.TransformID)
			if !ok {
				result.States[stage.ID] = StateFailed
				return result, fmt.Errorf("stage '%s': plan references undeclared transform '%s'",
					stage.ID, entry.TransformID)
			}

			result.trace(opts, "stage '%s': running transform '%s'", stage.ID, entry.TransformID)
			log.Debug("invoking transform", "stage", stage.ID, "transform", entry.TransformID)

			out, err := e.registry.InvokeTransform(ctx, decl.Impl, current, entry.Params)
			if err != nil {
				result.States[stage.ID] = StateFailed
				result.trace(opts, "stage '%s': transform '%s' failed: %v", stage.ID, entry.TransformID, err)
				log.Error("transform failed", "stage", stage.ID, "transform", entry.TransformID, "error", err)
				return result, fmt.Errorf("stage '%s': transform '%s': %w", stage.ID, entry.TransformID, err)
			}

			current = out
			result.trace(opts, "stage '%s': transform '%s' completed", stage.ID, entry.TransformID)
		}

		result.States[stage.ID] = StateCompleted
		if stage.CollectOutput || opts.CollectAll {
			result.Intermediates[stage.ID] = current
		}
	}

	result.Value = current
	log.Info("run completed", "intermediates", len(result.Intermediates))
	return result, nil
}

func (r *Result) trace(opts Options, format string, args ...any) {
	if !opts.Trace {
		return
	}
	r.Trace = append(r.Trace, fmt.Sprintf(format, args...))
}

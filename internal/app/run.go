package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/engine"
	"github.com/pipewright/pipewright/internal/integrity"
	"github.com/pipewright/pipewright/internal/planner"
)

// Run executes the configured command against the loaded specification.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", appConfig.Command)

	switch appConfig.Command {
	case CommandValidate:
		return a.validate(ctx)
	case CommandPlan:
		return a.plan(ctx, appConfig)
	case CommandRun:
		return a.execute(ctx, appConfig)
	}
	return fmt.Errorf("unknown command %q", appConfig.Command)
}

// validate checks the declarations in isolation and cross-checks them
// against the registered handlers. Integrity findings are reported but only
// declaration errors fail the command.
func (a *App) validate(ctx context.Context) error {
	issues := planner.ValidateDeclarations(a.model)

	report := integrity.Validate(a.model, a.registry, integrity.Options{
		CheckLocations:  true,
		CheckSignatures: true,
		FlagStubs:       true,
	})
	categories := make([]string, 0, len(report))
	for category := range report {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, msg := range report[category] {
			fmt.Fprintf(a.outW, "[%s] %s\n", category, msg)
		}
	}

	if issues.HasErrors() {
		for _, msg := range issues.Messages() {
			fmt.Fprintf(a.outW, "error: %s\n", msg)
		}
		return issues.Err()
	}

	fmt.Fprintf(a.outW, "specification valid: %d transforms, %d stages, %d integrity findings\n",
		len(a.model.Transforms), len(a.model.Stages), report.Total())
	return nil
}

// buildPlan loads the execution config and runs full plan validation.
func (a *App) buildPlan(ctx context.Context, appConfig *Config) (*planner.Plan, error) {
	cfg, err := a.cfgLoader.LoadExecutionConfig(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, err
	}

	plan, issues := planner.Build(ctx, a.model, cfg, planner.Options{
		CheckImplementations: true,
		RejectStubs:          appConfig.Strict,
		Registry:             a.registry,
	})
	if issues.HasErrors() {
		return nil, issues.Err()
	}
	return plan, nil
}

// plan previews what a run would execute, without invoking anything.
func (a *App) plan(ctx context.Context, appConfig *Config) error {
	plan, err := a.buildPlan(ctx, appConfig)
	if err != nil {
		return err
	}

	previews, err := a.engine.DryRun(ctx, plan)
	if err != nil {
		return err
	}
	for i, p := range previews {
		fmt.Fprintf(a.outW, "%d. %s → %s\n", i+1, p.StageID, p.TransformID)
	}
	return nil
}

// execute builds the plan, synthesizes the initial frame, runs the
// pipeline, and evaluates the declared data checks on the final output.
func (a *App) execute(ctx context.Context, appConfig *Config) error {
	plan, err := a.buildPlan(ctx, appConfig)
	if err != nil {
		return err
	}

	initial, err := a.initialData(ctx)
	if err != nil {
		return err
	}

	result, runErr := a.engine.Run(ctx, plan, initial, engine.Options{
		CollectAll: appConfig.CollectAll,
		Trace:      appConfig.Trace,
	})
	if appConfig.Trace {
		for _, line := range result.Trace {
			fmt.Fprintln(a.outW, line)
		}
	}
	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}

	if err := a.runChecks(ctx, result.Value); err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "run %s completed: %d steps, %d intermediates collected\n",
		result.RunID, len(plan.Entries), len(result.Intermediates))
	return nil
}

// initialData synthesizes the pipeline input from the specification's first
// declared generator, using its declared defaults.
func (a *App) initialData(ctx context.Context) (any, error) {
	if len(a.model.Generators) == 0 {
		return nil, errors.New("specification declares no generator to produce initial data")
	}
	gen := a.model.Generators[0]

	genParams := make(map[string]any)
	for _, p := range gen.Params {
		if p.HasDefault() {
			genParams[p.Name] = p.Default
		}
	}

	a.logger.Debug("Synthesizing initial data.", "generator", gen.ID)
	return a.registry.InvokeGenerator(ctx, gen.Impl, genParams)
}

// runChecks evaluates every declared check against the final output. A
// check that cannot be evaluated is an error; checks that evaluate to
// failure are reported together.
func (a *App) runChecks(ctx context.Context, value any) error {
	var failed []string
	for _, c := range a.model.Checks {
		passed, err := a.registry.InvokeCheck(ctx, c.Impl, value)
		if err != nil {
			return fmt.Errorf("check '%s': %w", c.ID, err)
		}
		if !passed {
			a.logger.Warn("Data check failed.", "check", c.ID)
			failed = append(failed, c.ID)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("data checks failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

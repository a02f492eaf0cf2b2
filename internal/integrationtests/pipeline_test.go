package integrationtests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/app"
	"github.com/pipewright/pipewright/internal/hcl"
	"github.com/pipewright/pipewright/internal/yamlcfg"
)

const pipelineSpec = `
spec {
  name    = "timeseries"
  version = "0.1.0"
}

datatype "RawFrame" {
  kind = "frame"
}

datatype "NormFrame" {
  kind = "frame"
}

generator "make_frame" {
  impl    = "source:make_frame"
  file    = "modules/source/module.go"
  returns = RawFrame

  param "rows" {
    type    = int
    default = 20
  }
  param "cols" {
    type    = int
    default = 2
  }
}

check "no_missing_values" {
  impl = "checks:no_missing_values"
  file = "modules/checks/module.go"
}

check "non_empty" {
  impl = "checks:non_empty"
  file = "modules/checks/module.go"
}

transform "add_zscore" {
  impl    = "normalize:add_zscore"
  file    = "modules/normalize/module.go"
  returns = NormFrame

  param "df" {
    type = RawFrame
  }
}

transform "add_minmax" {
  impl    = "normalize:add_minmax"
  file    = "modules/normalize/module.go"
  returns = NormFrame

  param "df" {
    type = RawFrame
  }
}

transform "add_rolling_mean" {
  impl    = "features:add_rolling_mean"
  file    = "modules/features/module.go"
  returns = NormFrame

  param "df" {
    type = NormFrame
  }
  param "window" {
    type    = int
    default = 3
  }
}

transform "add_lag" {
  impl    = "features:add_lag"
  file    = "modules/features/module.go"
  returns = NormFrame

  param "df" {
    type = NormFrame
  }
  param "n_lags" {
    type    = int
    default = 1
  }
}

transform "round_values" {
  impl    = "output:round_values"
  file    = "modules/output/module.go"
  returns = NormFrame

  param "df" {
    type = NormFrame
  }
  param "decimals" {
    type    = int
    default = 4
  }
}

stage "normalization" {
  input          = RawFrame
  output         = NormFrame
  selection_mode = "exclusive"
}

stage "features" {
  input          = NormFrame
  output         = NormFrame
  selection_mode = "multiple"
  candidates     = ["add_rolling_mean", "add_lag"]
  collect_output = true
}

stage "output" {
  input          = NormFrame
  output         = NormFrame
  selection_mode = "single"
  candidates     = ["round_values"]
}
`

const baselineConfig = `
version: 1
meta:
  config_name: baseline
execution:
  stages:
    - stage_id: normalization
      selected:
        - transform_id: add_zscore
    - stage_id: features
      selected:
        - transform_id: add_rolling_mean
          params:
            window: 5
        - transform_id: add_lag
`

// newTestApp writes the spec and config to disk and builds an App around
// them, capturing output.
func newTestApp(t *testing.T, spec, execCfg, command string) (*app.App, *app.Config, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	specPath := filepath.Join(dir, "spec.hcl")
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(execCfg), 0o644))

	var out bytes.Buffer
	appConfig, err := app.NewConfig(app.Config{
		Command:    command,
		SpecPath:   specPath,
		ConfigPath: cfgPath,
		LogFormat:  "text",
		LogLevel:   "error",
	})
	require.NoError(t, err)

	a := app.NewApp(&out, appConfig, hcl.NewLoader(), yamlcfg.NewLoader())
	return a, appConfig, &out
}

func TestPipeline_ValidateCommand(t *testing.T) {
	a, cfg, out := newTestApp(t, pipelineSpec, baselineConfig, app.CommandValidate)

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "specification valid")
	assert.Contains(t, out.String(), "0 integrity findings")
}

func TestPipeline_PlanCommand(t *testing.T) {
	a, cfg, out := newTestApp(t, pipelineSpec, baselineConfig, app.CommandPlan)

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1. normalization → add_zscore")
	assert.Contains(t, out.String(), "2. features → add_rolling_mean")
	assert.Contains(t, out.String(), "3. features → add_lag")
	assert.Contains(t, out.String(), "4. output → round_values")
}

func TestPipeline_RunCommand(t *testing.T) {
	a, cfg, out := newTestApp(t, pipelineSpec, baselineConfig, app.CommandRun)

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "completed: 4 steps")
}

func TestPipeline_RunWithTrace(t *testing.T) {
	a, cfg, out := newTestApp(t, pipelineSpec, baselineConfig, app.CommandRun)
	cfg.Trace = true

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "stage 'normalization': running transform 'add_zscore'")
	assert.Contains(t, out.String(), "stage 'output': transform 'round_values' completed")
}

func TestPipeline_InvalidSelectionRejected(t *testing.T) {
	badConfig := `
version: 1
meta:
  config_name: broken
execution:
  stages:
    - stage_id: features
      selected:
        - transform_id: add_zscore
`
	a, cfg, _ := newTestApp(t, pipelineSpec, badConfig, app.CommandPlan)

	err := a.Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a candidate for stage 'features'")
	// normalization also lost its selection
	assert.Contains(t, err.Error(), "requires exactly 1 selection, got 0")
}

func TestPipeline_NegativeOverrideRejected(t *testing.T) {
	badConfig := `
version: 1
meta:
  config_name: broken
execution:
  stages:
    - stage_id: normalization
      selected:
        - transform_id: add_zscore
    - stage_id: features
      selected:
        - transform_id: add_rolling_mean
          params:
            window: -3
`
	a, cfg, _ := newTestApp(t, pipelineSpec, badConfig, app.CommandRun)

	err := a.Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestPipeline_ExclusiveModeRejectsTwoSelections(t *testing.T) {
	badConfig := `
version: 1
meta:
  config_name: broken
execution:
  stages:
    - stage_id: normalization
      selected:
        - transform_id: add_zscore
        - transform_id: add_minmax
    - stage_id: features
      selected:
        - transform_id: add_lag
`
	a, cfg, _ := newTestApp(t, pipelineSpec, badConfig, app.CommandPlan)

	err := a.Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires exactly 1 selection, got 2")
}

func TestPipeline_ValidateReportsMissingImplementation(t *testing.T) {
	spec := pipelineSpec + `
transform "add_ghost" {
  impl    = "normalize:add_ghost"
  file    = "modules/normalize/module.go"
  returns = NormFrame

  param "df" {
    type = RawFrame
  }
}
`
	a, cfg, out := newTestApp(t, spec, baselineConfig, app.CommandValidate)

	err := a.Run(context.Background(), cfg)

	// validation still succeeds: integrity findings are informational
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[transform_functions]")
	assert.Contains(t, out.String(), "add_ghost")
}

package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/internal/app"
	"github.com/pipewright/pipewright/internal/cli"
)

func TestParse_RunCommand(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := cli.Parse([]string{"-spec", "spec/", "-config", "run.yaml", "-trace", "run"}, &out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, app.CommandRun, cfg.Command)
	assert.Equal(t, "spec/", cfg.SpecPath)
	assert.Equal(t, "run.yaml", cfg.ConfigPath)
	assert.True(t, cfg.Trace)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_ShorthandSpecFlag(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := cli.Parse([]string{"-s", "spec.hcl", "validate"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "spec.hcl", cfg.SpecPath)
}

func TestParse_NoCommandPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := cli.Parse([]string{"-spec", "spec.hcl"}, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_MissingSpec(t *testing.T) {
	var out bytes.Buffer

	_, _, err := cli.Parse([]string{"validate"}, &out)

	require.Error(t, err)
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "SpecPath")
}

func TestParse_PlanRequiresConfig(t *testing.T) {
	var out bytes.Buffer

	_, _, err := cli.Parse([]string{"-spec", "spec.hcl", "plan"}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConfigPath is required")
}

func TestParse_UnknownCommand(t *testing.T) {
	var out bytes.Buffer

	_, _, err := cli.Parse([]string{"-spec", "spec.hcl", "deploy"}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Command must be one of")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer

	_, _, err := cli.Parse([]string{"-spec", "spec.hcl", "-log-format", "xml", "validate"}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer

	_, _, err := cli.Parse([]string{"-spec", "spec.hcl", "-log-level", "loud", "validate"}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}

package app

import "errors"

// Commands the application understands.
const (
	CommandValidate = "validate"
	CommandPlan     = "plan"
	CommandRun      = "run"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    string
	SpecPath   string // hcl specification file or directory
	ConfigPath string // yaml execution config file

	LogFormat string
	LogLevel  string

	// CollectAll retains every stage output in the run result, not just the
	// stages that declare collect_output.
	CollectAll bool
	// Trace prints a per-step execution trace after a run.
	Trace bool
	// Strict makes planning reject transforms whose handlers are registered
	// as stubs.
	Strict bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SpecPath == "" {
		return nil, errors.New("SpecPath is a required configuration field and cannot be empty")
	}

	switch cfg.Command {
	case CommandValidate:
	case CommandPlan, CommandRun:
		if cfg.ConfigPath == "" {
			return nil, errors.New("ConfigPath is required for the plan and run commands")
		}
	default:
		return nil, errors.New("Command must be one of: validate, plan, run")
	}

	return &cfg, nil
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pipewright/pipewright/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pipewright", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Pipewright - a declarative, typed data pipeline engine.

Usage:
  pipewright [options] COMMAND

Commands:
  validate
    Check the specification declarations and their Go implementations.
  plan
    Preview which transforms an execution config would run, in order.
  run
    Execute the pipeline described by an execution config.

Options:
`)
		flagSet.PrintDefaults()
	}

	specFlag := flagSet.String("spec", "", "Path to the specification file or directory.")
	sFlag := flagSet.String("s", "", "Path to the specification file or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to the execution config file. Required for plan and run.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	collectAllFlag := flagSet.Bool("collect-all", false, "Retain every stage's output, not just collect_output stages.")
	traceFlag := flagSet.Bool("trace", false, "Print a per-step execution trace after a run.")
	strictFlag := flagSet.Bool("strict", false, "Reject plans that select stub implementations.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	command := ""
	if flagSet.NArg() > 0 {
		command = flagSet.Arg(0)
	}
	if command == "" {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	specPath := *specFlag
	if specPath == "" {
		specPath = *sFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:    command,
		SpecPath:   specPath,
		ConfigPath: *configFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		CollectAll: *collectAllFlag,
		Trace:      *traceFlag,
		Strict:     *strictFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command)
	return config, false, nil
}

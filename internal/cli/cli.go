package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/app"
	"github.com/specialistvlad/slidegridgo/internal/engine"
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

// varFlag collects repeated -var name=value flags.
type varFlag map[string]string

func (v varFlag) set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	if _, dup := v[name]; dup {
		return fmt.Errorf("variable %q given more than once", name)
	}
	v[name] = value
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("slidegridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
SlideGridGo - Rework a slide by running a graph of layout and content steps.

Usage:
  slidegridgo [options] [PLAN_PATH...]

Arguments:
  PLAN_PATH
    Path to a single .hcl plan file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to the plan file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plan file or directory (shorthand).")
	datamodelFlag := flagSet.String("datamodel", "", "Path to the starting datamodel JSON file.")
	layoutFlag := flagSet.String("layout", "", "Path to the starting layout JSON file.")
	processIDFlag := flagSet.String("process-id", "", "Identifier of this run. A random UUID when empty.")
	outputDirFlag := flagSet.String("output-dir", app.DefaultOutputDir, "Directory the run artifacts are written to.")
	artifactsURLFlag := flagSet.String("artifacts-url", "", "Optional URL prefix every artifact is also uploaded to with HTTP PUT.")
	maxIterFlag := flagSet.Int("max-iterations", engine.DefaultMaxIterations, "Maximum number of waves a run may execute.")
	policyFlag := flagSet.String("failure-policy", string(engine.FailContinue), "What a failed step means for its successors. Options: 'continue' or 'skip-dependents'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	eventsURLFlag := flagSet.String("events-url", "", "socket.io server that receives run events. Empty disables it.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Validate the plan and print the wave plan without calling any model.")
	vars := varFlag{}
	flagSet.Func("var", "Set a plan variable as name=value. May be repeated.", vars.set)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *planFlag != "":
		paths = append(paths, *planFlag)
	case *pFlag != "":
		paths = append(paths, *pFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Plan paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No plan path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		PlanPaths:       paths,
		DatamodelPath:   *datamodelFlag,
		LayoutPath:      *layoutFlag,
		ProcessID:       *processIDFlag,
		OutputDir:       *outputDirFlag,
		ArtifactsURL:    *artifactsURLFlag,
		Vars:            vars,
		MaxIterations:   *maxIterFlag,
		FailurePolicy:   strings.ToLower(*policyFlag),
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
		EventsURL:       *eventsURLFlag,
		DryRun:          *dryRunFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

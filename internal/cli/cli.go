package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vk/pdeconf/internal/app"
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

// varFlags collects repeated -var name=expr flags.
type varFlags map[string]string

func (v varFlags) String() string {
	parts := make([]string, 0, len(v))
	for name, raw := range v {
		parts = append(parts, name+"="+raw)
	}
	return strings.Join(parts, ",")
}

func (v varFlags) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)
	if !ok || name == "" || raw == "" {
		return fmt.Errorf("expected name=expression, got %q", s)
	}
	v[name] = raw
	return nil
}

// defaultLogFormat is text on a terminal and json otherwise.
func defaultLogFormat() string {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return "text"
	}
	return "json"
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pdeconf", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pdeconf - Evaluates expression-based PDE run configurations over time.

Usage:
  pdeconf [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a .hcl or .yaml file, or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the configuration file or directory.")
	cFlag := flagSet.String("c", "", "Path to the configuration file or directory (shorthand).")
	importDirFlag := flagSet.String("import-dir", "", "Directory IMPORT functions are resolved against.")
	logFormatFlag := flagSet.String("log-format", defaultLogFormat(), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	timeFlag := flagSet.Float64("time", 0, "Start time, overriding the time block.")
	stepsFlag := flagSet.Int("steps", 0, "Number of time steps, overriding the time block.")
	storeFlag := flagSet.String("store", "", "SQLite file frames are recorded in. Empty keeps them in memory.")
	publishFlag := flagSet.String("publish", "", "socket.io URL frames are published to.")
	namespaceFlag := flagSet.String("namespace", "", "socket.io namespace for published frames.")
	vars := varFlags{}
	flagSet.Var(vars, "var", "Override a model parameter as name=expression. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *configFlag != "":
		paths = append(paths, *configFlag)
	case *cFlag != "":
		paths = append(paths, *cFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
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

	// -time and -steps only override when given explicitly.
	var startTime *float64
	var steps *int
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "time":
			startTime = timeFlag
		case "steps":
			steps = stepsFlag
		}
	})
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths: paths,
		ImportDir:   *importDirFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		StartTime:   startTime,
		Steps:       steps,
		Vars:        vars,
		Store:       *storeFlag,
		Publish:     *publishFlag,
		Namespace:   *namespaceFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/specialistvlad/casegrid/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("casegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
casegrid - runs groups of test cases in dependency order, each case sandboxed
in its own process.

Usage:
  casegrid [options] JOB_PATH

Arguments:
  JOB_PATH
    Path to a single .hcl/.yaml job file or a directory containing them.

Exit status is 0 if every group and case passed, 1 otherwise.

Options:
`)
		flagSet.PrintDefaults()
	}

	outFlag := flagSet.String("o", "-", "Report destination file, '-' for standard output.")
	formatFlag := flagSet.String("f", "txt", "Report format. Options: 'txt' or 'xml'.")
	parallelFlag := flagSet.Int("p", runtime.NumCPU(), "Maximum number of sandboxed cases running at once.")
	simpleFlag := flagSet.Bool("s", false, "Simple mode: run every case in-process, one at a time.")
	verboseFlag := flagSet.Bool("v", false, "Verbose: log at debug level.")
	dumpFlag := flagSet.Bool("d", false, "Print the sequenced graph before running it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	otlpFlag := flagSet.String("otlp-endpoint", "", "OTLP/HTTP collector (host:port) to export traces to. Empty disables tracing.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No job path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected one job path, got %d", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Job path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := "info"
	if *verboseFlag {
		logLevel = "debug"
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		JobPath:      path,
		ReportPath:   *outFlag,
		ReportFormat: strings.ToLower(*formatFlag),
		MaxParallel:  *parallelFlag,
		Simple:       *simpleFlag,
		Dump:         *dumpFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		OTLPEndpoint: *otlpFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/casegrid/internal/app"
	"github.com/specialistvlad/casegrid/internal/cli"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/scheduler"
)

// main is the entrypoint for the casegrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// A sandboxed child is this same binary, started with the parent's
	// arguments and the address of the case to run.
	if _, _, ok := launcher.ChildTarget(); ok {
		os.Exit(child(os.Stderr, os.Args[1:]))
	}

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	casegridApp := app.NewApp(outW, logW, appConfig)
	err = casegridApp.Run(context.Background())
	switch {
	case errors.Is(err, app.ErrRunFailed):
		return &cli.ExitError{Code: 1, Message: "casegrid: run failed"}
	case errors.Is(err, scheduler.ErrInterrupted):
		return &cli.ExitError{Code: 1, Message: "casegrid: interrupted"}
	}
	return err
}

// child runs the single case addressed in the environment and returns its
// exit code.
func child(logW io.Writer, args []string) int {
	appConfig, shouldExit, err := cli.Parse(args, io.Discard)
	if err != nil || shouldExit {
		fmt.Fprintln(logW, "casegrid: child started without a usable command line")
		return int(model.Failure)
	}
	return app.NewApp(io.Discard, logW, appConfig).ServeChild(context.Background())
}

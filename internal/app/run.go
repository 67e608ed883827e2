package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/graph"
	"github.com/specialistvlad/casegrid/internal/interrupt"
	"github.com/specialistvlad/casegrid/internal/jobfile"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/report"
	"github.com/specialistvlad/casegrid/internal/scheduler"
	"github.com/specialistvlad/casegrid/internal/telemetry"
)

// Run executes the main application logic based on the provided configuration.
// It returns ErrRunFailed when the run completed with failures, and
// scheduler.ErrInterrupted after a bail-out, in which case no report is
// written.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{ServiceName: "casegrid", Endpoint: a.config.OTLPEndpoint})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Tracer shutdown failed.", "error", err)
		}
	}()

	stop := interrupt.Watch(a.flag)
	defer stop()

	run, err := a.load(ctx, uuid.NewString())
	if err != nil {
		return err
	}
	a.logger.Info("Jobs loaded.", "run", run.ID, "groups", len(run.Groups.Nodes), "cases", len(run.Cases()))
	run.Sandboxed = !a.config.Simple
	run.MaxParallel = a.config.MaxParallel
	run.Output = model.Output{Path: a.config.ReportPath, Format: a.config.ReportFormat}

	if err := graph.SequenceRun(ctx, run); err != nil {
		return fmt.Errorf("failed to sequence run: %w", err)
	}
	a.logger.Debug("Run sequenced.", "groups", len(run.Groups.Nodes), "max_rank", run.Groups.MaxRank)

	if a.config.Dump {
		if err := graph.Dump(a.outW, run); err != nil {
			return fmt.Errorf("failed to dump graph: %w", err)
		}
	}

	l, err := a.launcher(ctx, run)
	if err != nil {
		return err
	}
	s := scheduler.New(l, a.flag)
	if err := s.Run(ctx, run); err != nil {
		return err
	}
	stats := s.Stats()
	a.logger.Debug("Scheduler statistics.",
		"dispatched", stats.Dispatched,
		"launched", stats.Launched,
		"launch_failures", stats.LaunchFailures,
		"barriers", stats.Barriers,
		"peak_live", stats.PeakLive,
	)

	if err := a.writeReport(run); err != nil {
		return err
	}

	if !run.Succeeded() {
		return ErrRunFailed
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// ServeChild is the lifecycle of a sandboxed child: rebuild the run from the
// same job files, run the case named in the environment and return its exit
// code.
func (a *App) ServeChild(ctx context.Context) int {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	run, err := a.load(ctx, "child")
	if err != nil {
		a.logger.Error("Child failed to load the run.", "error", err)
		return int(model.Failure)
	}
	return launcher.Serve(ctx, launcher.ResolveIn(run))
}

func (a *App) load(ctx context.Context, runID string) (*model.Run, error) {
	run, err := jobfile.LoadRun(ctx, a.config.JobPath, a.registry, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return run, nil
}

// launcher picks the sandboxing backend, falling back to in-process
// execution where processes cannot be forked.
func (a *App) launcher(ctx context.Context, run *model.Run) (launcher.Launcher, error) {
	if !run.Sandboxed {
		return launcher.NewInProcess(), nil
	}
	l, err := a.newLauncher()
	if errors.Is(err, launcher.ErrForkUnsupported) {
		ctxlog.FromContext(ctx).Warn("Process sandboxing unavailable, running cases in-process.", "error", err)
		return launcher.NewInProcess(), nil
	}
	return l, err
}

func (a *App) writeReport(run *model.Run) (err error) {
	var w io.Writer = a.outW
	if run.Output.Path != "-" {
		f, cerr := os.Create(run.Output.Path)
		if cerr != nil {
			return fmt.Errorf("failed to create report: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report: %w", cerr)
			}
		}()
		w = f
	}

	hooks, err := report.New(run.Output.Format, w)
	if err != nil {
		return err
	}
	if err := report.Walk(run, report.HostInfo(), hooks); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Debug("Report written.", "path", run.Output.Path, "format", run.Output.Format)
	return nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/interrupt"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stats are counters collected while scheduling.
type Stats struct {
	// Dispatched counts cases run directly in the controller.
	Dispatched int
	// Launched counts children started successfully.
	Launched int
	// LaunchFailures counts children that could not be started.
	LaunchFailures int
	// Barriers counts reap barriers, one per chunk.
	Barriers int
	// PeakLive is the highest number of simultaneously outstanding children.
	PeakLive int
}

// Scheduler drives one run. It is not safe for concurrent use.
type Scheduler struct {
	launcher launcher.Launcher
	flag     *interrupt.Flag
	tracer   trace.Tracer

	stats Stats
	spans map[*model.Case]trace.Span
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTracer overrides the tracer, which defaults to telemetry.Tracer().
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) { s.tracer = t }
}

// New returns a scheduler launching sandboxed cases through l and watching
// flag for cancellation.
func New(l launcher.Launcher, flag *interrupt.Flag, opts ...Option) *Scheduler {
	s := &Scheduler{
		launcher: l,
		flag:     flag,
		tracer:   telemetry.Tracer(),
		spans:    make(map[*model.Case]trace.Span),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the counters collected so far.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Run executes every group of a sequenced run and tallies the synoptic
// counters. It returns ErrInterrupted after a bail-out, or a wrapped ErrReap
// when reaping failed; item failures are not errors.
func (s *Scheduler) Run(ctx context.Context, run *model.Run) error {
	logger := ctxlog.FromContext(ctx)
	ctx, cancel := s.flag.Bind(ctx)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("casegrid.run.id", run.ID),
		attribute.Bool("casegrid.run.sandboxed", run.Sandboxed),
		attribute.Int("casegrid.run.max_parallel", run.MaxParallel),
	))
	defer span.End()

	logger.Info("Run started.", "run", run.ID, "groups", len(run.Groups.Nodes), "sandboxed", run.Sandboxed, "max_parallel", run.MaxParallel)
	run.Start = time.Now()
	err := s.simple(ctx, "run", run.Groups, func(ctx context.Context, n *model.Node) error {
		return s.runGroup(ctx, run, n.Group)
	})
	if err == nil && s.flag.Raised() {
		err = ErrInterrupted
	}
	run.Stop = time.Now()
	Tally(run)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	logger.Info("Run finished.",
		"run", run.ID,
		"elapsed", run.Stop.Sub(run.Start),
		"cases", run.CaseTotals.Total,
		"passed", run.CaseTotals.Success,
		"launched", s.stats.Launched,
		"barriers", s.stats.Barriers,
	)
	return nil
}

// runGroup dispatches the cases of g and settles the group's status.
func (s *Scheduler) runGroup(ctx context.Context, run *model.Run, g *model.Group) error {
	ctx = ctxlog.With(ctx, "group", g.Node.ID)
	logger := ctxlog.FromContext(ctx)
	ctx, span := s.tracer.Start(ctx, "group "+g.Node.ID, trace.WithAttributes(
		attribute.String("casegrid.group", g.Node.ID),
		attribute.Int("casegrid.rank", int(g.Node.Rank)),
	))
	defer span.End()

	logger.Debug("Group started.", "cases", len(g.Cases.Nodes))
	g.Node.Start = time.Now()
	var err error
	if run.Sandboxed {
		err = s.sandboxed(ctx, g.Cases, run.MaxParallel)
	} else {
		err = s.simple(ctx, "group "+g.Node.ID, g.Cases, s.runCase)
	}
	g.Node.Stop = time.Now()

	if s.flag.Raised() {
		span.SetStatus(codes.Error, "interrupted")
		return s.bailout(ctx, g.Cases)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	g.Node.Status = groupStatus(g)
	span.SetAttributes(attribute.String("casegrid.status", g.Node.Status.String()))
	logger.Debug("Group finished.", "status", g.Node.Status, "elapsed", g.Node.Elapsed())
	return nil
}

// runCase is the simple-mode dispatch of a single case.
func (s *Scheduler) runCase(ctx context.Context, n *model.Node) error {
	c := n.Case
	ctx, span := s.tracer.Start(ctx, "case "+c.Path(), trace.WithAttributes(caseAttrs(c)...))
	s.stats.Dispatched++
	launcher.RunDirect(ctx, c)
	endCaseSpan(span, c)
	ctxlog.FromContext(ctx).Debug("Case finished.", append(c.LogAttrs(), "status", n.Status)...)
	return nil
}

// ready reports whether n may be dispatched now, skipping it when a
// dependency did not succeed.
func (s *Scheduler) ready(ctx context.Context, n *model.Node) bool {
	if n.Status != model.Pending {
		return false
	}
	if b := n.Blocker(); b != nil {
		skip(ctx, n, b)
		return false
	}
	return true
}

// skip marks n skipped because of blocker. A skipped group skips all of its
// cases and counts as failed itself, so its own dependents cascade too.
func skip(ctx context.Context, n *model.Node, blocker *model.Node) {
	ctxlog.FromContext(ctx).Warn("Skipping due to failed dependency.",
		"kind", n.Kind, "id", n.ID, "dependency", blocker.ID, "dependency_status", blocker.Status)
	n.Status = model.Skipped
	if n.Group == nil {
		return
	}
	for _, cn := range n.Group.Cases.Nodes {
		cn.Status = model.Skipped
	}
	n.Status = model.Failure
}

// groupStatus is Success when every case succeeded, Failure otherwise.
func groupStatus(g *model.Group) model.Status {
	for _, cn := range g.Cases.Nodes {
		if cn.Status != model.Success {
			return model.Failure
		}
	}
	return model.Success
}

func caseAttrs(c *model.Case) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("casegrid.group", c.Group.Node.ID),
		attribute.String("casegrid.case", c.Node.ID),
		attribute.String("casegrid.func", c.FuncName),
		attribute.Int("casegrid.rank", int(c.Node.Rank)),
	}
}

func endCaseSpan(span trace.Span, c *model.Case) {
	span.SetAttributes(attribute.String("casegrid.status", c.Node.Status.String()))
	if c.Node.Status != model.Success {
		span.SetStatus(codes.Error, c.Node.Status.String())
	}
	span.End()
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// dispatchFunc runs a single ready node. A returned error stops the list.
type dispatchFunc func(ctx context.Context, n *model.Node) error

// simple dispatches the ready nodes of each rank one at a time, in
// declaration order.
func (s *Scheduler) simple(ctx context.Context, scope string, l *model.List, dispatch dispatchFunc) error {
	logger := ctxlog.FromContext(ctx)
	for rank := uint(0); rank <= l.MaxRank; rank++ {
		if s.flag.Raised() {
			logger.Warn("Interrupted, not entering rank.", "scope", scope, "rank", rank)
			return nil
		}
		for _, n := range l.Nodes {
			if n.Rank != rank || !s.ready(ctx, n) {
				continue
			}
			if err := dispatch(ctx, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// sandboxed launches the ready cases of each rank in chunks of at most
// maxParallel children and reaps every chunk before moving on.
func (s *Scheduler) sandboxed(ctx context.Context, l *model.List, maxParallel int) error {
	logger := ctxlog.FromContext(ctx)
	if maxParallel < 1 {
		maxParallel = 1
	}

	for rank := uint(0); rank <= l.MaxRank; rank++ {
		if s.flag.Raised() {
			logger.Warn("Interrupted, not entering rank.", "rank", rank)
			return nil
		}

		chunk := 0
		for _, n := range l.Nodes {
			if n.Rank != rank || !s.ready(ctx, n) {
				continue
			}
			if n.Case.Func == nil {
				n.Start = time.Now()
				n.Status = model.Success
				n.Stop = n.Start
				continue
			}

			s.launch(ctx, l, n.Case)
			chunk++
			if chunk == maxParallel {
				if err := s.reap(ctx, l); err != nil {
					return err
				}
				chunk = 0
			}
		}
		if chunk > 0 {
			if err := s.reap(ctx, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// launch starts c as a child. A failed start is logged and leaves the case
// without a result.
func (s *Scheduler) launch(ctx context.Context, l *model.List, c *model.Case) {
	logger := ctxlog.FromContext(ctx)
	spanCtx, span := s.tracer.Start(ctx, "case "+c.Path(), trace.WithAttributes(caseAttrs(c)...))

	c.Node.Start = time.Now()
	h, err := s.launcher.Start(spanCtx, c)
	if err != nil {
		s.stats.LaunchFailures++
		logger.Error("Failed to launch case.", append(c.LogAttrs(), "error", err)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "launch failed")
		span.End()
		return
	}

	c.Handle = h
	s.spans[c] = span
	l.Outstanding++
	s.stats.Launched++
	if l.Outstanding > s.stats.PeakLive {
		s.stats.PeakLive = l.Outstanding
	}
	logger.Debug("Case launched.", append(c.LogAttrs(), "handle", h, "outstanding", l.Outstanding)...)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"errors"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
	"go.opentelemetry.io/otel/codes"
)

// bailout kills every live child of l, drains all children regardless of
// outcome and returns ErrInterrupted. It is the only place children are
// killed.
func (s *Scheduler) bailout(ctx context.Context, l *model.List) error {
	logger := ctxlog.FromContext(ctx)

	killed := 0
	for _, n := range l.Nodes {
		c := n.Case
		if c == nil || c.Handle == model.NoHandle {
			continue
		}
		if err := s.launcher.Kill(c.Handle); err != nil {
			logger.Error("Failed to kill child.", append(c.LogAttrs(), "handle", c.Handle, "error", err)...)
		}
		killed++
	}
	logger.Warn("Run interrupted, bailing out.", "killed", killed)

	drain := context.WithoutCancel(ctx)
	drained := 0
	for {
		_, err := s.launcher.Wait(drain)
		if err != nil {
			if !errors.Is(err, launcher.ErrNoChildren) {
				logger.Error("Drain stopped early.", "error", err)
			}
			break
		}
		drained++
	}

	for _, n := range l.Nodes {
		c := n.Case
		if c == nil || c.Handle == model.NoHandle {
			continue
		}
		c.Handle = model.NoHandle
		if span, ok := s.spans[c]; ok {
			delete(s.spans, c)
			span.SetStatus(codes.Error, "killed")
			span.End()
		}
	}
	l.Outstanding = 0
	logger.Debug("Bail-out drain complete.", "drained", drained)
	return ErrInterrupted
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/model"
)

// reap drains the outstanding children of l, mapping each exit back to its
// case. It stops early when nothing is left to wait for or ctx is done; a
// nonzero remainder is then returned as ErrReapIncomplete.
func (s *Scheduler) reap(ctx context.Context, l *model.List) error {
	logger := ctxlog.FromContext(ctx)
	s.stats.Barriers++

	for l.Outstanding > 0 {
		ex, err := s.launcher.Wait(ctx)
		if errors.Is(err, launcher.ErrNoChildren) {
			logger.Warn("No children left to reap.", "outstanding", l.Outstanding)
			break
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReap, err)
		}

		c := l.ByHandle(ex.Handle)
		if c == nil {
			logger.Warn("Reaped an unknown child, ignoring.", "handle", ex.Handle)
			continue
		}
		if ex.Stopped {
			logger.Debug("Child stopped, waiting for termination.", append(c.LogAttrs(), "handle", ex.Handle)...)
			continue
		}

		l.Outstanding--
		c.Handle = model.NoHandle
		c.Node.Stop = time.Now()
		c.Usage = ex.Usage
		classify(ctx, c, ex)

		if span, ok := s.spans[c]; ok {
			delete(s.spans, c)
			endCaseSpan(span, c)
		}
		logger.Debug("Case reaped.", append(c.LogAttrs(), "status", c.Node.Status, "outstanding", l.Outstanding)...)
	}

	if l.Outstanding > 0 {
		return fmt.Errorf("%w: %d children outstanding", ErrReapIncomplete, l.Outstanding)
	}
	return nil
}

// classify turns an exit into a case status. A normal exit yields the exit
// code as-is; a signal death yields Aborted.
func classify(ctx context.Context, c *model.Case, ex launcher.Exit) {
	logger := ctxlog.FromContext(ctx)
	switch {
	case ex.Exited:
		st := model.Status(ex.Code)
		if !st.IsExitCode() {
			logger.Warn("Suspicious exit code from case.", append(c.LogAttrs(), "code", ex.Code)...)
		}
		c.Node.Status = st
	case ex.Signaled:
		logger.Warn("Case terminated abnormally.", append(c.LogAttrs(), "signal", ex.Signal)...)
		c.Node.Status = model.Aborted
	default:
		logger.Warn("Unclassifiable child exit.", c.LogAttrs()...)
		c.Node.Status = model.Aborted
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package basic provides the trivial case functions: pass, fail and sleep.
package basic

import (
	"context"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// DefaultSleep is used when a sleep case sets no duration.
const DefaultSleep = time.Second

// Pass always succeeds.
func Pass(context.Context, *model.Case) model.Status {
	return model.Success
}

// Fail always fails.
func Fail(context.Context, *model.Case) model.Status {
	return model.Failure
}

// Sleep waits for the "duration" argument and succeeds. It fails on a bad
// duration or when ctx ends first.
func Sleep(ctx context.Context, c *model.Case) model.Status {
	logger := ctxlog.FromContext(ctx)

	d := DefaultSleep
	if raw := c.Arg("duration"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("Invalid sleep duration.", "duration", raw, "error", err)
			return model.Failure
		}
		d = parsed
	}

	logger.Debug("Sleeping.", "duration", d)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return model.Success
	case <-ctx.Done():
		logger.Warn("Sleep cancelled.", "error", ctx.Err())
		return model.Failure
	}
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("pass", Pass)
	r.Register("fail", Fail)
	r.Register("sleep", Sleep, "duration")
}

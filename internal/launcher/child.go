// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package launcher

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
)

// ChildEnv is the environment variable carrying the address of the case a
// child process must run.
const ChildEnv = "CASEGRID_CASE"

// sep separates the group and case ids in ChildEnv. Unit separator, so ids
// may contain any printable character.
const sep = "\x1f"

// Address encodes the ChildEnv value for c.
func Address(c *model.Case) string {
	return c.Group.Node.ID + sep + c.Node.ID
}

// ChildTarget reports whether the current process is a case child and, if
// so, which case it must run.
func ChildTarget() (group, kase string, ok bool) {
	v, set := os.LookupEnv(ChildEnv)
	if !set {
		return "", "", false
	}
	group, kase, ok = strings.Cut(v, sep)
	return group, kase, ok
}

// Resolver finds the case a child has to run.
type Resolver func(ctx context.Context, group, kase string) (*model.Case, error)

// Serve is the child-side half of the fork launcher. It resolves the case
// named in the environment, runs it and returns the exit code. Panics are
// not recovered: the runtime is told to crash with SIGABRT instead, so the
// parent's reaper observes a signal death.
func Serve(ctx context.Context, resolve Resolver) int {
	logger := ctxlog.FromContext(ctx)

	group, kase, ok := ChildTarget()
	if !ok {
		logger.Error("Child started without a valid case address.", "env", ChildEnv)
		return int(model.Failure)
	}

	c, err := resolve(ctx, group, kase)
	if err != nil {
		logger.Error("Child could not resolve its case.", "group", group, "case", kase, "error", err)
		return int(model.Failure)
	}
	if c.Func == nil {
		return int(model.Success)
	}

	debug.SetTraceback("crash")
	st := c.Func(ctxlog.With(ctx, append([]any{"group", group}, c.LogAttrs()...)...), c)
	return int(st)
}

// ResolveIn returns a Resolver looking cases up in an already built run.
func ResolveIn(run *model.Run) Resolver {
	return func(_ context.Context, group, kase string) (*model.Case, error) {
		g := run.Group(group)
		if g == nil {
			return nil, fmt.Errorf("group %q not found", group)
		}
		c := g.Case(kase)
		if c == nil {
			return nil, fmt.Errorf("case %q not found in group %q", kase, group)
		}
		return c, nil
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package launcher

import (
	"context"
	"errors"

	"github.com/specialistvlad/casegrid/internal/model"
)

var (
	// ErrNoChildren is returned by Wait when nothing is left to reap.
	ErrNoChildren = errors.New("no child processes")
	// ErrForkUnsupported is returned where process sandboxing is unavailable.
	ErrForkUnsupported = errors.New("process sandboxing is not supported on this platform")
)

// Exit describes how a child finished.
type Exit struct {
	Handle model.Handle

	// Exited is set for a normal exit, Code then holds the exit status.
	Exited bool
	Code   int

	// Signaled is set when the child died abnormally; Signal names the cause.
	Signaled bool
	Signal   string

	// Stopped is set when the child was merely suspended.
	Stopped bool

	Usage *model.Usage
}

// Launcher starts cases and collects their exits.
type Launcher interface {
	// Start launches c and returns its handle without waiting for it.
	Start(ctx context.Context, c *model.Case) (model.Handle, error)
	// Wait blocks until any launched child changes state. It returns
	// ErrNoChildren when none are left, or ctx.Err() when ctx is done first.
	Wait(ctx context.Context) (Exit, error)
	// Kill forcefully terminates the child behind h.
	Kill(h model.Handle) error
}

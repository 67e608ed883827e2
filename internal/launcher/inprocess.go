// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package launcher

import (
	"context"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
)

// InProcess runs each case synchronously at Start and queues its exit for
// Wait. Handles are sequence numbers.
type InProcess struct {
	next model.Handle
	done []Exit
}

// NewInProcess returns an in-process launcher.
func NewInProcess() *InProcess {
	return &InProcess{}
}

// Start implements Launcher.
func (l *InProcess) Start(ctx context.Context, c *model.Case) (model.Handle, error) {
	l.next++
	h := l.next

	st, err := Call(ctx, c)
	ex := Exit{Handle: h, Exited: true, Code: int(st)}
	if err != nil {
		ctxlog.FromContext(ctx).Debug("In-process case panicked.", append(c.LogAttrs(), "error", err)...)
		ex = Exit{Handle: h, Signaled: true, Signal: "panic"}
	}
	l.done = append(l.done, ex)
	return h, nil
}

// Wait implements Launcher.
func (l *InProcess) Wait(ctx context.Context) (Exit, error) {
	if err := ctx.Err(); err != nil {
		return Exit{}, err
	}
	if len(l.done) == 0 {
		return Exit{}, ErrNoChildren
	}
	ex := l.done[0]
	l.done = l.done[1:]
	return ex, nil
}

// Kill implements Launcher. In-process cases have already finished by the
// time anyone could kill them.
func (l *InProcess) Kill(model.Handle) error {
	return nil
}

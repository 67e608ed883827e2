// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
)

// Call runs the case function in the calling goroutine. A panic is recovered
// and reported as Aborted. A case without a function succeeds.
func Call(ctx context.Context, c *model.Case) (st model.Status, err error) {
	if c.Func == nil {
		return model.Success, nil
	}
	defer func() {
		if r := recover(); r != nil {
			st = model.Aborted
			err = fmt.Errorf("case %s panicked: %v", c.Path(), r)
		}
	}()
	return c.Func(ctxlog.With(ctx, c.LogAttrs()...), c), nil
}

// RunDirect runs c in the controller. The function's return value becomes
// the case status; start and stop bracket the call.
func RunDirect(ctx context.Context, c *model.Case) {
	c.Node.Start = time.Now()
	st, err := Call(ctx, c)
	c.Node.Stop = time.Now()
	c.Node.Status = st
	if err != nil {
		ctxlog.FromContext(ctx).Error("Case aborted.", append(c.LogAttrs(), "error", err)...)
	}
}

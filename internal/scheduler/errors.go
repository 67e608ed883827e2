// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import "errors"

var (
	// ErrReap is a reaper system error: waiting for children failed for a
	// reason other than an interruption or having no children left.
	ErrReap = errors.New("reaper system error")
	// ErrReapIncomplete means the reaper stopped with children outstanding.
	ErrReapIncomplete = errors.New("reap incomplete")
	// ErrInterrupted means the run was cancelled and bailed out.
	ErrInterrupted = errors.New("run interrupted")
)

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"fmt"
)

var (
	ErrCycle             = errors.New("dependency cycle")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrUnknownDependency = errors.New("unknown dependency")
)

// SetupError is a graph defect found before execution. It unwraps to one of
// the sentinel errors above.
type SetupError struct {
	Kind   error
	Scope  string
	ID     string
	Detail string
}

func (e *SetupError) Error() string {
	msg := fmt.Sprintf("%s: %s %q", e.Scope, e.Kind, e.ID)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SetupError) Unwrap() error { return e.Kind }

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package launcher

import (
	"context"

	"github.com/specialistvlad/casegrid/internal/model"
)

// Fork is unavailable on this platform; NewFork always fails.
type Fork struct{}

// NewFork reports ErrForkUnsupported.
func NewFork([]string) (*Fork, error) {
	return nil, ErrForkUnsupported
}

func (*Fork) Start(context.Context, *model.Case) (model.Handle, error) {
	return model.NoHandle, ErrForkUnsupported
}

func (*Fork) Wait(context.Context) (Exit, error) {
	return Exit{}, ErrNoChildren
}

func (*Fork) Kill(model.Handle) error {
	return ErrForkUnsupported
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package shell provides the "shell" case function bound to every case that
// sets a command. The command line is split into arguments and executed
// directly; shell operators such as pipes are not interpreted.
package shell

import (
	"context"
	"strings"

	"github.com/bitfield/script"
	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Name is the registry name job files bind commands to.
const Name = "shell"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Run executes the "command" argument and succeeds on exit status zero.
func Run(ctx context.Context, c *model.Case) model.Status {
	logger := ctxlog.FromContext(ctx)

	command := strings.TrimSpace(c.Arg("command"))
	if command == "" {
		logger.Error("The shell case has no command.")
		return model.Failure
	}

	logger.Info("Executing shell command.", "cmd", command)
	p := script.Exec(command)
	output, err := p.String()
	if err != nil {
		logger.Error("Command failed.", "error", err, "exit_status", p.ExitStatus(), "output", output)
		return model.Failure
	}

	logger.Debug("Command succeeded.", "output", output)
	return model.Success
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, Run, "command")
}

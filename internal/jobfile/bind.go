// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// CommandFunc is the registry name a case's command is bound to. The
// command itself is handed over as the "command" argument.
const CommandFunc = "shell"

// Bind validates d and builds the run it declares, resolving every run name
// against reg. The run is not sequenced yet.
func Bind(d *Document, reg *registry.Registry, runID string) (*model.Run, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	run := model.NewRun(runID)
	for _, gs := range d.Groups {
		g := run.AddGroup(gs.ID, gs.DependsOn...)
		for _, cs := range gs.Cases {
			name := cs.Run
			args := maps.Clone(cs.Args)
			if cs.Command != "" {
				name = CommandFunc
				if args == nil {
					args = make(map[string]string, 1)
				}
				args["command"] = cs.Command
			}

			var fn model.CaseFunc
			if name != "" {
				var ok bool
				fn, ok = reg.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("%s: group %q case %q: %w: unknown function %q (known: %v)",
						gs.Source, gs.ID, cs.ID, ErrInvalidCase, name, reg.Names())
				}
			}

			c := g.AddCase(cs.ID, fn, cs.DependsOn...)
			c.FuncName = name
			c.Args = args
		}
	}
	return run, nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

import (
	"errors"
	"fmt"

	"github.com/gammazero/toposort"
	"github.com/specialistvlad/casegrid/internal/graph"
)

// ErrInvalidCase reports a case declaration that cannot be bound.
var ErrInvalidCase = errors.New("invalid case")

// item is the part of a group or case declaration validation looks at.
type item struct {
	id   string
	deps []string
}

// Validate checks d for the defects that must stop a run before anything is
// dispatched: duplicate ids, unknown dependencies, cycles and cases setting
// both run and command. Errors carry the file the offending item came from.
func Validate(d *Document) error {
	groups := make([]item, 0, len(d.Groups))
	sources := make(map[string]string, len(d.Groups))
	for _, g := range d.Groups {
		groups = append(groups, item{id: g.ID, deps: g.DependsOn})
		if _, seen := sources[g.ID]; !seen {
			sources[g.ID] = g.Source
		}
	}
	if err := validateList("run", groups); err != nil {
		return err
	}

	for _, g := range d.Groups {
		scope := g.Source + ": group " + g.ID
		cases := make([]item, 0, len(g.Cases))
		for _, c := range g.Cases {
			if c.Run != "" && c.Command != "" {
				return fmt.Errorf("%s: case %q: %w: run and command are mutually exclusive", scope, c.ID, ErrInvalidCase)
			}
			cases = append(cases, item{id: c.ID, deps: c.DependsOn})
		}
		if err := validateList(scope, cases); err != nil {
			return err
		}
	}
	return nil
}

func validateList(scope string, items []item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.id]; dup {
			return &graph.SetupError{Kind: graph.ErrDuplicateID, Scope: scope, ID: it.id}
		}
		seen[it.id] = struct{}{}
	}

	edges := make([]toposort.Edge, 0)
	for _, it := range items {
		for _, dep := range it.deps {
			if _, ok := seen[dep]; !ok {
				return &graph.SetupError{Kind: graph.ErrUnknownDependency, Scope: scope, ID: dep, Detail: "required by " + it.id}
			}
			if dep == it.id {
				return &graph.SetupError{Kind: graph.ErrCycle, Scope: scope, ID: it.id, Detail: "depends on itself"}
			}
			edges = append(edges, toposort.Edge{dep, it.id})
		}
	}
	if len(edges) == 0 {
		return nil
	}

	if _, err := toposort.Toposort(edges); err != nil {
		return &graph.SetupError{Kind: graph.ErrCycle, Scope: scope, ID: firstCyclic(items), Detail: err.Error()}
	}
	return nil
}

// firstCyclic returns the first declared item that cannot be ordered.
func firstCyclic(items []item) string {
	done := make(map[string]bool, len(items))
	for progress := true; progress; {
		progress = false
		for _, it := range items {
			if done[it.id] {
				continue
			}
			ready := true
			for _, dep := range it.deps {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				done[it.id] = true
				progress = true
			}
		}
	}
	for _, it := range items {
		if !done[it.id] {
			return it.id
		}
	}
	return ""
}

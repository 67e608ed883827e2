// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
)

// SequenceRun sequences the groups of run, then the cases of every group.
func SequenceRun(ctx context.Context, run *model.Run) error {
	if err := Sequence(ctx, "run", run.Groups); err != nil {
		return err
	}
	for _, gn := range run.Groups.Nodes {
		if err := Sequence(ctx, "group "+gn.ID, gn.Group.Cases); err != nil {
			return err
		}
	}
	return nil
}

// Sequence assigns a rank to every node of l. scope only labels errors and
// logs.
func Sequence(ctx context.Context, scope string, l *model.List) error {
	logger := ctxlog.FromContext(ctx)

	if err := validate(scope, l); err != nil {
		return err
	}

	for {
		top := frontier(l)
		if top == nil {
			break
		}
		top.Sequenced = true
		if top.Rank > l.MaxRank {
			l.MaxRank = top.Rank
		}

		for _, other := range l.Nodes {
			for _, d := range other.Deps {
				if d.Target != nil || d.TargetID != top.ID {
					continue
				}
				d.Target = top
				if other.Rank <= top.Rank {
					other.Rank = top.Rank + 1
				}
			}
		}
		logger.Debug("Node sequenced.", "scope", scope, "id", top.ID, "rank", top.Rank)
	}

	var stuck []string
	for _, n := range l.Nodes {
		if !n.Sequenced {
			stuck = append(stuck, n.ID)
		}
	}
	if len(stuck) > 0 {
		return &SetupError{
			Kind:   ErrCycle,
			Scope:  scope,
			ID:     stuck[0],
			Detail: fmt.Sprintf("unresolvable: %s", strings.Join(stuck, ", ")),
		}
	}
	return nil
}

// frontier returns the first unsequenced node whose dependencies are all
// resolved.
func frontier(l *model.List) *model.Node {
	for _, n := range l.Nodes {
		if !n.Sequenced && n.Dry() {
			return n
		}
	}
	return nil
}

func validate(scope string, l *model.List) error {
	seen := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if _, dup := seen[n.ID]; dup {
			return &SetupError{Kind: ErrDuplicateID, Scope: scope, ID: n.ID}
		}
		seen[n.ID] = struct{}{}
	}
	for _, n := range l.Nodes {
		for _, d := range n.Deps {
			if _, ok := seen[d.TargetID]; !ok {
				return &SetupError{
					Kind:   ErrUnknownDependency,
					Scope:  scope,
					ID:     d.TargetID,
					Detail: "required by " + n.ID,
				}
			}
		}
	}
	return nil
}

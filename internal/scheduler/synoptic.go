// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import "github.com/specialistvlad/casegrid/internal/model"

// Tally recomputes the synoptic counters of every group and of the run from
// the final statuses. It can be called any number of times.
func Tally(run *model.Run) {
	run.GroupTotals = model.Synoptic{}
	run.CaseTotals = model.Synoptic{}
	for _, gn := range run.Groups.Nodes {
		g := gn.Group
		g.Synoptic = model.Synoptic{}
		for _, cn := range g.Cases.Nodes {
			g.Synoptic.Count(cn.Status)
		}
		run.GroupTotals.Count(gn.Status)
		run.CaseTotals.Add(g.Synoptic)
	}
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package graph sequences the work item graph: it resolves dependency records
// against their siblings and assigns every node a rank such that each node
// ranks strictly above everything it depends on.
//
// # Scope
//
// Ranks are local to a sibling list. The groups of a run are sequenced first,
// then each group's cases are sequenced on their own. Nothing is flattened
// into a global rank space, so a case at rank 0 of a late group still waits
// for its group's turn.
//
// # Algorithm
//
// The sequencer repeatedly picks the first node, in declaration order, that
// is not yet sequenced and whose dependencies are all resolved (the
// frontier). It marks that node sequenced, then resolves every dependency
// record in the list naming it and lifts the dependents' rank above it. When
// no frontier node remains, any node still unsequenced sits on (or behind) a
// cycle and the whole run is rejected before anything is dispatched.
package graph

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the in-memory work item graph of a single run.
//
// A Run owns an ordered list of Groups; each Group owns an ordered list of
// Cases. Both Groups and Cases are Nodes: the schedulable record carrying the
// id, status, rank, timestamps and dependency list. A Node is a tagged union,
// its Kind tells which of the Group or Case variants is set.
//
// Lists are ordered slices, never maps. Declaration order is the tie-break
// for everything downstream (sequencing, dispatch, reporting), so it has to
// survive intact from the job file to the report.
//
// The graph is mutated by a single controller goroutine only and carries no
// locks.
package model

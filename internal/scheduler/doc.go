// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package scheduler executes a sequenced run rank by rank.
//
// # Regimes
//
// Groups are always dispatched one at a time ("simple"). The cases of a
// group are dispatched the same way unless the run is sandboxed, in which
// case each rank is walked in chunks of at most MaxParallel ready cases: the
// whole chunk is launched, then reaped to completion, before the next chunk
// or rank starts. At most MaxParallel children are therefore ever live.
//
// # Failure semantics
//
// A node whose dependency did not succeed is skipped without being
// dispatched; a skipped group skips all of its cases. A case returning
// Failure or dying abnormally is only recorded. Reaper system errors are the
// one kind of execution error that stops the whole run.
//
// # Cancellation
//
// The scheduler looks at the interrupt flag before entering every rank. Once
// a group's dispatch loop returns with the flag raised, the group bails out:
// every live child is killed, all children are drained, and Run returns
// ErrInterrupted.
//
// A single goroutine drives everything here; the graph carries no locks.
package scheduler

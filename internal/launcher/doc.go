// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package launcher runs case functions, either in the controller's own
// goroutine or sandboxed in a child process.
//
// A Launcher starts a case and hands back a Handle without blocking. Results
// are collected later through Wait, which returns whichever child finished
// first. This matches the reaper's model: it drains a known number of
// outstanding children and maps each one back to its case by handle.
//
// Two backends exist. Fork re-executes the current binary with the case
// address in the environment; the child rebuilds the run, calls the function
// and exits with its status. InProcess calls the function synchronously at
// Start and queues the result, mapping a panic to an abnormal termination; it
// is the fallback where process sandboxing is unavailable.
package launcher

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// Status is the outcome of a work item. The first four values double as the
// exit codes of a sandboxed case process.
type Status int

const (
	Success Status = iota
	Failure
	// Aborted is set by the reaper on abnormal termination. Case functions
	// never return it.
	Aborted
	// Skipped is set by the scheduler when a dependency did not succeed.
	Skipped
	// Pending marks an item that has no result (yet).
	Pending
)

// String returns the four-letter tag used in reports.
func (s Status) String() string {
	switch s {
	case Success:
		return "PASS"
	case Failure:
		return "FAIL"
	case Aborted:
		return "ABRT"
	case Skipped:
		return "SKIP"
	case Pending:
		return "NRUN"
	default:
		return fmt.Sprintf("STATUS(%d)", int(s))
	}
}

// IsExitCode reports whether s is a status a case process may legitimately
// exit with.
func (s Status) IsExitCode() bool {
	return s == Success || s == Failure
}

// Kind discriminates the variant held by a Node.
type Kind int

const (
	KindGroup Kind = iota
	KindCase
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "case"
}

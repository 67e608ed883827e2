// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// Synoptic holds totals by status.
type Synoptic struct {
	Total   int
	Success int
	Failure int
	Aborted int
	Skipped int
	Pending int
}

// Count adds one item with status st. A status outside the known range,
// as left by a child exiting with an unexpected code, counts as aborted.
func (s *Synoptic) Count(st Status) {
	s.Total++
	switch st {
	case Success:
		s.Success++
	case Failure:
		s.Failure++
	case Aborted:
		s.Aborted++
	case Skipped:
		s.Skipped++
	case Pending:
		s.Pending++
	default:
		s.Aborted++
	}
}

// Add merges o into s.
func (s *Synoptic) Add(o Synoptic) {
	s.Total += o.Total
	s.Success += o.Success
	s.Failure += o.Failure
	s.Aborted += o.Aborted
	s.Skipped += o.Skipped
	s.Pending += o.Pending
}

// Clean reports whether every counted item succeeded.
func (s Synoptic) Clean() bool {
	return s.Success == s.Total
}

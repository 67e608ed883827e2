// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/specialistvlad/casegrid/internal/model"
)

// Text renders a plain, line-oriented report.
type Text struct {
	w *bufio.Writer
}

// NewText returns a text renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

// Run implements Hooks.
func (t *Text) Run(tag Tag, r RunInfo) error {
	if tag == Head {
		mode := "simple"
		if r.Sandboxed {
			mode = fmt.Sprintf("sandboxed, max %d", r.MaxParallel)
		}
		fmt.Fprintf(t.w, "RUN %s on %s (%s/%s, %d cpus, %s)\n", r.ID, r.Host.Name, r.Host.OS, r.Host.Arch, r.Host.CPUs, mode)
		return nil
	}

	result := model.Success
	if !r.Passed() {
		result = model.Failure
	}
	fmt.Fprintf(t.w, "\ngroups %s\n", synoptic(r.Groups))
	fmt.Fprintf(t.w, "cases  %s\n", synoptic(r.Cases))
	fmt.Fprintf(t.w, "%s %s in %s\n", result, r.ID, round(elapsed(r.Start, r.Stop)))
	return t.w.Flush()
}

// Group implements Hooks.
func (t *Text) Group(tag Tag, g GroupInfo) error {
	if tag == Head {
		_, err := fmt.Fprintf(t.w, "\n%s group %s\n", g.Status, g.ID)
		return err
	}
	_, err := fmt.Fprintf(t.w, "  -- %s in %s\n", synoptic(g.Cases), round(elapsed(g.Start, g.Stop)))
	return err
}

// Case implements Hooks.
func (t *Text) Case(c CaseInfo) error {
	fn := c.Func
	if fn == "" {
		fn = "-"
	}
	fmt.Fprintf(t.w, "  %s %s/%s [%s] %s", c.Status, c.Group, c.ID, fn, round(elapsed(c.Start, c.Stop)))
	if u := c.Usage; u != nil {
		fmt.Fprintf(t.w, " (user %s, sys %s, maxrss %dkB)", round(u.User), round(u.System), u.MaxRSS)
	}
	_, err := fmt.Fprintln(t.w)
	return err
}

func synoptic(s model.Synoptic) string {
	return fmt.Sprintf("total=%d pass=%d fail=%d abrt=%d skip=%d nrun=%d",
		s.Total, s.Success, s.Failure, s.Aborted, s.Skipped, s.Pending)
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}

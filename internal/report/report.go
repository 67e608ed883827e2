// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package report renders a finished run. The scheduler never formats
// anything: Walk visits the graph in declaration order and feeds a Hooks
// implementation, one per output format.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/specialistvlad/casegrid/internal/model"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the supported format names.
var Formats = []string{"txt", "xml"}

// Tag tells a run or group hook whether it opens or closes its item.
type Tag int

const (
	Head Tag = iota
	Tail
)

func (t Tag) String() string {
	if t == Head {
		return "head"
	}
	return "tail"
}

// Host describes the machine the run executed on.
type Host struct {
	Name string
	OS   string
	Arch string
	CPUs int
}

// HostInfo returns the current host.
func HostInfo() Host {
	name, err := os.Hostname()
	if err != nil {
		name = "unknown"
	}
	return Host{Name: name, OS: runtime.GOOS, Arch: runtime.GOARCH, CPUs: runtime.NumCPU()}
}

// RunInfo is handed to the run-level hook.
type RunInfo struct {
	ID          string
	Host        Host
	Sandboxed   bool
	MaxParallel int
	Start       time.Time
	Stop        time.Time
	Groups      model.Synoptic
	Cases       model.Synoptic
}

// Passed reports whether every group and case succeeded.
func (r RunInfo) Passed() bool {
	return r.Groups.Clean() && r.Cases.Clean()
}

// GroupInfo is handed to the group-level hook.
type GroupInfo struct {
	ID     string
	Rank   uint
	Status model.Status
	Start  time.Time
	Stop   time.Time
	Cases  model.Synoptic
}

// CaseInfo is handed to the case-level hook. Usage is only set for cases
// that ran in a child process.
type CaseInfo struct {
	Group  string
	ID     string
	Func   string
	Rank   uint
	Status model.Status
	Start  time.Time
	Stop   time.Time
	Usage  *model.Usage
}

// Hooks receives a finished run. Run and Group are called twice, with Head
// and Tail around their children.
type Hooks interface {
	Run(tag Tag, info RunInfo) error
	Group(tag Tag, info GroupInfo) error
	Case(info CaseInfo) error
}

// New returns the renderer for format writing to w.
func New(format string, w io.Writer) (Hooks, error) {
	switch format {
	case "txt":
		return NewText(w), nil
	case "xml":
		return NewXML(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownFormat, format, Formats)
	}
}

// Walk calls the hooks for run and everything in it, in declaration order.
// It only reads the run, so it may be repeated with the same result.
func Walk(run *model.Run, host Host, h Hooks) error {
	ri := RunInfo{
		ID:          run.ID,
		Host:        host,
		Sandboxed:   run.Sandboxed,
		MaxParallel: run.MaxParallel,
		Start:       run.Start,
		Stop:        run.Stop,
		Groups:      run.GroupTotals,
		Cases:       run.CaseTotals,
	}
	if err := h.Run(Head, ri); err != nil {
		return err
	}
	for _, gn := range run.Groups.Nodes {
		gi := GroupInfo{
			ID:     gn.ID,
			Rank:   gn.Rank,
			Status: gn.Status,
			Start:  gn.Start,
			Stop:   gn.Stop,
			Cases:  gn.Group.Synoptic,
		}
		if err := h.Group(Head, gi); err != nil {
			return err
		}
		for _, cn := range gn.Group.Cases.Nodes {
			c := cn.Case
			err := h.Case(CaseInfo{
				Group:  gn.ID,
				ID:     cn.ID,
				Func:   c.FuncName,
				Rank:   cn.Rank,
				Status: cn.Status,
				Start:  cn.Start,
				Stop:   cn.Stop,
				Usage:  c.Usage,
			})
			if err != nil {
				return err
			}
		}
		if err := h.Group(Tail, gi); err != nil {
			return err
		}
	}
	return h.Run(Tail, ri)
}

func elapsed(start, stop time.Time) time.Duration {
	if start.IsZero() || stop.IsZero() {
		return 0
	}
	return stop.Sub(start)
}

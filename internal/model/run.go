// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"context"
	"time"
)

// CaseFunc is the runnable bound to a Case. It returns Success or Failure.
type CaseFunc func(ctx context.Context, c *Case) Status

// Handle identifies a live child: a process id for the fork launcher, a
// sequence number for the in-process one.
type Handle int

// NoHandle means the case has no live child.
const NoHandle Handle = 0

// Usage is the resource usage of a reaped child.
type Usage struct {
	User              time.Duration
	System            time.Duration
	MaxRSS            int64 // kilobytes
	MinorFaults       int64
	MajorFaults       int64
	VoluntarySwitch   int64
	InvoluntarySwitch int64
}

// Case is a leaf work item bound to a function.
type Case struct {
	Node  *Node
	Group *Group

	// FuncName is the registry name the case was bound to, for reports and
	// for rebinding in a child process. Func is nil for a placeholder.
	FuncName string
	Func     CaseFunc
	Args     map[string]string

	Handle Handle
	Usage  *Usage
}

// Arg returns the named argument, or "" when unset.
func (c *Case) Arg(name string) string {
	return c.Args[name]
}

// Path is the "group/case" address used in logs.
func (c *Case) Path() string {
	if c.Group == nil {
		return c.Node.ID
	}
	return c.Group.Node.ID + "/" + c.Node.ID
}

// LogAttrs returns the attributes identifying c in structured logs. The
// group is expected on the logger already.
func (c *Case) LogAttrs() []any {
	return []any{"case", c.Node.ID}
}

// Group is a named collection of Cases, itself schedulable.
type Group struct {
	Node     *Node
	Cases    *List
	Synoptic Synoptic
}

// AddCase creates a pending case and attaches it to the group.
func (g *Group) AddCase(id string, fn CaseFunc, deps ...string) *Case {
	c := &Case{Group: g, Func: fn}
	n := &Node{Kind: KindCase, ID: id, Status: Pending, Case: c}
	n.DependsOn(deps...)
	c.Node = n
	g.Cases.attach(n)
	return c
}

// Case returns the case with the given id.
func (g *Group) Case(id string) *Case {
	if n := g.Cases.Find(id); n != nil {
		return n.Case
	}
	return nil
}

// Output is where and how the report is rendered.
type Output struct {
	Path   string
	Format string
}

// Run is the top-level container of one execution.
type Run struct {
	ID          string
	Groups      *List
	Sandboxed   bool
	MaxParallel int
	Output      Output

	Start time.Time
	Stop  time.Time

	GroupTotals Synoptic
	CaseTotals  Synoptic
}

// NewRun returns an empty run.
func NewRun(id string) *Run {
	return &Run{ID: id, Groups: &List{}, MaxParallel: 1}
}

// AddGroup creates a pending group and attaches it to the run.
func (r *Run) AddGroup(id string, deps ...string) *Group {
	g := &Group{Cases: &List{}}
	n := &Node{Kind: KindGroup, ID: id, Status: Pending, Group: g}
	n.DependsOn(deps...)
	g.Node = n
	r.Groups.attach(n)
	return g
}

// Group returns the group with the given id.
func (r *Run) Group(id string) *Group {
	if n := r.Groups.Find(id); n != nil {
		return n.Group
	}
	return nil
}

// Cases returns every case of the run in declaration order.
func (r *Run) Cases() []*Case {
	var out []*Case
	for _, gn := range r.Groups.Nodes {
		for _, cn := range gn.Group.Cases.Nodes {
			out = append(out, cn.Case)
		}
	}
	return out
}

// Succeeded reports whether every group and case ended in Success.
func (r *Run) Succeeded() bool {
	for _, gn := range r.Groups.Nodes {
		if gn.Status != Success {
			return false
		}
		for _, cn := range gn.Group.Cases.Nodes {
			if cn.Status != Success {
				return false
			}
		}
	}
	return true
}

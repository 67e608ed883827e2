// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "time"

// Dependency is a named reference to a sibling. Target stays nil until the
// sequencer resolves it.
type Dependency struct {
	TargetID string
	Target   *Node
}

// Node is the schedulable record shared by Groups and Cases.
type Node struct {
	Kind      Kind
	ID        string
	Status    Status
	Rank      uint
	Sequenced bool
	Start     time.Time
	Stop      time.Time
	Deps      []*Dependency

	// List is the sibling list the node is attached to.
	List *List

	// Exactly one of these is set, matching Kind.
	Group *Group
	Case  *Case
}

// Dry reports whether every dependency of n has been resolved.
func (n *Node) Dry() bool {
	for _, d := range n.Deps {
		if d.Target == nil {
			return false
		}
	}
	return true
}

// Blocker returns the first dependency that did not succeed, or nil.
func (n *Node) Blocker() *Node {
	for _, d := range n.Deps {
		if d.Target != nil && d.Target.Status != Success {
			return d.Target
		}
	}
	return nil
}

// Elapsed is the wall time between start and stop, zero if n never ran.
func (n *Node) Elapsed() time.Duration {
	if n.Start.IsZero() || n.Stop.IsZero() {
		return 0
	}
	return n.Stop.Sub(n.Start)
}

// DependsOn appends dependency records naming the given sibling ids.
func (n *Node) DependsOn(ids ...string) {
	for _, id := range ids {
		n.Deps = append(n.Deps, &Dependency{TargetID: id})
	}
}

// List is an ordered sibling list: the Groups of a Run or the Cases of a Group.
type List struct {
	Nodes []*Node

	// MaxRank is the highest rank assigned by the sequencer.
	MaxRank uint

	// Outstanding counts launched children not yet reaped.
	Outstanding int
}

func (l *List) attach(n *Node) {
	n.List = l
	l.Nodes = append(l.Nodes, n)
}

// Find returns the first node with the given id.
func (l *List) Find(id string) *Node {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ByHandle returns the case whose live process handle is h.
func (l *List) ByHandle(h Handle) *Case {
	if h == NoHandle {
		return nil
	}
	for _, n := range l.Nodes {
		if n.Case != nil && n.Case.Handle == h {
			return n.Case
		}
	}
	return nil
}

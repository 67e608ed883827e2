// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package jobfile

// Document is the parsed content of one or more job files.
type Document struct {
	Groups []*GroupSpec
}

// GroupSpec declares a group.
type GroupSpec struct {
	ID        string
	DependsOn []string
	Cases     []*CaseSpec
	// Source is the file the group was declared in.
	Source string
}

// CaseSpec declares a case. At most one of Run and Command is set; with
// neither the case is a placeholder.
type CaseSpec struct {
	ID        string
	Run       string
	Command   string
	DependsOn []string
	Args      map[string]string
}

// Merge appends the groups of other to d.
func (d *Document) Merge(other *Document) {
	d.Groups = append(d.Groups, other.Groups...)
}

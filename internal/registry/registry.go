// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/specialistvlad/casegrid/internal/model"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Entry is a registered case function.
type Entry struct {
	Name string
	// Params lists the argument names the function reads, for usage output.
	Params []string
	Fn     model.CaseFunc
}

// Registry holds the case functions of a single application instance.
type Registry struct {
	entries map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register registers fn under name. Registering a name twice is a
// programming error and panics.
func (r *Registry) Register(name string, fn model.CaseFunc, params ...string) {
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("case function with name '%s' already registered", name))
	}
	if fn == nil {
		panic(fmt.Sprintf("case function '%s' is nil", name))
	}
	slog.Debug("Registering case function.", "name", name)
	r.entries[name] = &Entry{Name: name, Params: slices.Clone(params), Fn: fn}
}

// RegisterModules lets every module register its functions.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (model.CaseFunc, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.Fn, true
}

// Entries returns every registered function sorted by name.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Package fault provides case functions that crash on purpose, to exercise
// abnormal termination handling.
package fault

import (
	"context"

	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Segfault dereferences a nil pointer.
func Segfault(context.Context, *model.Case) model.Status {
	var p *model.Node
	return p.Status
}

// Panic panics with the "message" argument.
func Panic(_ context.Context, c *model.Case) model.Status {
	msg := c.Arg("message")
	if msg == "" {
		msg = "deliberate panic"
	}
	panic(msg)
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("segfault", Segfault)
	r.Register("panic", Panic, "message")
}

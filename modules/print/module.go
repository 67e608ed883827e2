// Package print provides the "print" case function, which writes its
// arguments to standard output.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out defaults to os.Stdout.
	Out io.Writer
}

// Print returns the case function writing the arguments of its case to w.
func Print(w io.Writer) model.CaseFunc {
	return func(ctx context.Context, c *model.Case) model.Status {
		ctxlog.FromContext(ctx).Info("Printing input.")

		if len(c.Args) == 0 {
			fmt.Fprintf(w, "      %s: (null)\n", c.Path())
			return model.Success
		}

		// Sort keys for consistent output
		keys := make([]string, 0, len(c.Args))
		for k := range c.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "      %s: %s = %q\n", c.Path(), k, c.Args[k]); err != nil {
				ctxlog.FromContext(ctx).Error("Failed to print.", "error", err)
				return model.Failure
			}
		}
		return model.Success
	}
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.Register("print", Print(out))
}

// Package env_vars provides the "env" case function, which checks that the
// environment variables a case needs are set.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Required splits the comma separated "vars" argument.
func Required(c *model.Case) []string {
	var names []string
	for _, name := range strings.Split(c.Arg("vars"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// OnRunEnvVars fails unless every variable named in "vars" is set. With
// "nonempty" set to "true", empty values count as missing.
func OnRunEnvVars(ctx context.Context, c *model.Case) model.Status {
	logger := ctxlog.FromContext(ctx)
	nonEmpty := c.Arg("nonempty") == "true"

	var missing []string
	for _, name := range Required(c) {
		v, ok := os.LookupEnv(name)
		if !ok || (nonEmpty && v == "") {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		logger.Error("Required environment variables are missing.", "missing", missing)
		return model.Failure
	}
	logger.Debug("Environment checked.", "vars", len(Required(c)))
	return model.Success
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env", OnRunEnvVars, "vars", "nonempty")
}

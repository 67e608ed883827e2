package app

import (
	"github.com/specialistvlad/casegrid/internal/registry"
	"github.com/specialistvlad/casegrid/modules/basic"
	"github.com/specialistvlad/casegrid/modules/env_vars"
	"github.com/specialistvlad/casegrid/modules/fault"
	"github.com/specialistvlad/casegrid/modules/http_client"
	"github.com/specialistvlad/casegrid/modules/print"
	"github.com/specialistvlad/casegrid/modules/shell"
)

// coreModules is the definitive list of all modules that are compiled into
// the casegrid binary.
var coreModules = []registry.Module{
	&basic.Module{},
	&env_vars.Module{},
	&fault.Module{},
	&http_client.Module{},
	&print.Module{},
	&shell.Module{},
}

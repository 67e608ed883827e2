package app

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/casegrid/internal/interrupt"
	"github.com/specialistvlad/casegrid/internal/launcher"
	"github.com/specialistvlad/casegrid/internal/registry"
)

// ErrRunFailed is returned by Run when at least one item did not succeed.
var ErrRunFailed = errors.New("run failed")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	flag     *interrupt.Flag

	// newLauncher builds the sandboxing backend; replaced in tests.
	newLauncher func() (launcher.Launcher, error)
}

// NewApp is the constructor for the main application. outW receives the
// report and the debug dump, logW the logs. Without modules the core
// modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "functions", reg.Names())

	return &App{
		outW:        outW,
		logger:      logger,
		registry:    reg,
		config:      cfg,
		flag:        interrupt.New(),
		newLauncher: forkLauncher,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Interrupt returns the flag that cancels the run when raised.
func (a *App) Interrupt() *interrupt.Flag {
	return a.flag
}

// forkLauncher re-executes this binary with the same arguments, so children
// see the same configuration as the parent.
func forkLauncher() (launcher.Launcher, error) {
	f, err := launcher.NewFork(os.Args[1:])
	if err != nil {
		return nil, err
	}
	return f, nil
}

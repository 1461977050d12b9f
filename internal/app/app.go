// Package app wires a flowgridgo application instance together: logger,
// source registry, loaded flow model, and the runtime that hosts them.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/flow"
	"github.com/vk/flowgridgo/internal/registry"
)

// App encapsulates one application instance's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *flow.Model
	config   *Config
}

// New returns a fully initialized App with its own isolated logger and
// registry. Passing no modules registers the built-in source set. Fatal
// startup problems panic; the entrypoint recovers them into a clean exit.
func New(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured.")

	model, err := flow.Load(cfg.FlowPath)
	if err != nil {
		panic(fmt.Errorf("failed to load flow configuration: %w", err))
	}
	logger.Debug("Flow model loaded.", "sources", len(model.Sources))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Source modules registered.", "count", len(modules))

	if err := reg.Validate(ctx); err != nil {
		// A registry that fails validation is a programmer error.
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		config:   cfg,
	}
}

// Registry exposes the app's registry, primarily for tests.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model exposes the loaded flow model, primarily for tests.
func (a *App) Model() *flow.Model {
	return a.model
}

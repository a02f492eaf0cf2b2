package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/engine"
	"github.com/pipewright/pipewright/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	model     *config.Model
	engine    *engine.Engine
	cfgLoader config.ExecutionConfigLoader
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// A specification that cannot even be parsed is a fatal startup error.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, cfgLoader config.ExecutionConfigLoader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.SpecPath)
	if err != nil {
		panic(fmt.Errorf("failed to load specification: %w", err))
	}
	logger.Debug("Specification loaded and translated into unified model.",
		"transforms", len(model.Transforms), "stages", len(model.Stages))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		model:     model,
		engine:    engine.New(model, reg),
		cfgLoader: cfgLoader,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded specification model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

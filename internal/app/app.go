package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/hcl"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/registry"
	"github.com/vk/gridsim/internal/sim"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: the component registry, the loaded model definition, and the
// model façade built from it.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	def      *model.Def
	model    *sim.Model
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry, and
// the model definition already loaded from the configured path.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All component modules registered.", "count", len(modules))

	loader := hcl.NewLoader(reg)
	def, err := loader.Load(ctx, appConfig.ModelPath)
	if err != nil {
		// A failure to load the declaration is a fatal startup error.
		panic(fmt.Errorf("failed to load model declaration: %w", err))
	}
	logger.Debug("Model declaration loaded.", "namespace", def.Namespace())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		def:      def,
		model:    sim.FromDef(def),
		config:   appConfig,
	}
}

// Registry returns the application's component registry. Primarily for
// testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Model returns the model façade. Primarily for testing and result
// inspection.
func (a *App) Model() *sim.Model { return a.model }

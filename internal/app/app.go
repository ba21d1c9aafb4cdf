package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/slidegridgo/internal/config"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/engine"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	plan     *config.Model
	registry *registry.Registry
	sink     sink.Sink

	// run is the execution in progress, read by the /status endpoint.
	run        atomic.Pointer[engine.Run]
	finished   atomic.Bool
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the plan and
// registers the handlers. When no modules are given, the LLM agents
// described by the plan are built and registered; dry runs register none.
//
// A plan that cannot be loaded, or agents that cannot be built, are fatal
// startup errors and cause a panic.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	plan, err := loader.Load(ctx, cfg.Vars, cfg.PlanPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load plan: %w", err))
	}
	logger.Debug("Plan loaded and translated into unified model.", "steps", len(plan.Steps))

	var artifacts sink.Sink = sink.NewFileSink(cfg.OutputDir)
	if cfg.ArtifactsURL != "" {
		artifacts = sink.Tee{artifacts, sink.NewUploadSink(cfg.ArtifactsURL)}
		logger.Debug("Artifacts will also be uploaded.", "url", cfg.ArtifactsURL)
	}

	if len(modules) == 0 && !cfg.DryRun {
		mod, err := agentModule(ctx, plan, artifacts)
		if err != nil {
			panic(fmt.Errorf("failed to build agents: %w", err))
		}
		modules = []registry.Module{mod}
	}
	reg := registry.New(modules...)
	logger.Debug("All handler modules registered.", "count", len(modules), "registrants", reg.Registrants())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		plan:     plan,
		registry: reg,
		sink:     artifacts,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Plan returns the loaded plan model.
func (a *App) Plan() *config.Model {
	return a.plan
}

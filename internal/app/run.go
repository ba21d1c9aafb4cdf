package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/dispatch"
	"github.com/specialistvlad/slidegridgo/internal/engine"
	"github.com/specialistvlad/slidegridgo/internal/events"
	"github.com/specialistvlad/slidegridgo/internal/runstate"
	"github.com/specialistvlad/slidegridgo/internal/scheduler"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.startHealthCheckServer(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.closeHealthCheckServer(ctx))
	}()

	graph := a.plan.Graph()
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("plan has an invalid step graph: %w", err)
	}
	if graph.Len() == 0 {
		a.logger.Warn("No steps found in plan, execution not required.")
		return nil
	}

	if a.config.DryRun {
		return a.printPlan(ctx, graph)
	}

	if err := a.registry.Validate(ctx, graph); err != nil {
		return err
	}
	a.logger.Debug("Registry validation passed.", "registrants", a.registry.Registrants())

	datamodel, err := loadDatamodel(ctx, a.config.DatamodelPath)
	if err != nil {
		return err
	}
	layout, err := loadLayout(ctx, a.config.LayoutPath)
	if err != nil {
		return err
	}

	state, err := runstate.New(graph, datamodel, layout)
	if err != nil {
		return fmt.Errorf("failed to prepare run state: %w", err)
	}
	run := engine.NewRun(a.config.ProcessID, state, dispatch.New(a.registry))
	a.run.Store(run)

	publisher, closePublisher, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer closePublisher()

	policy, err := engine.ParseFailurePolicy(a.config.FailurePolicy)
	if err != nil {
		return err
	}

	report, err := engine.Execute(ctx, run, engine.Options{
		MaxIterations: a.config.MaxIterations,
		FailurePolicy: policy,
		Sink:          a.sink,
		Publisher:     publisher,
	})
	a.finished.Store(true)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	for _, perr := range report.PersistErrors {
		a.logger.Warn("Artifact was not written.", "error", perr)
	}
	if report.CeilingReached {
		a.logger.Warn("Iteration ceiling reached; some steps did not run.", "maxIterations", a.config.MaxIterations, "stalled", report.Stalled)
	}
	a.logger.Info("Artifacts written.", "dir", a.config.OutputDir, "processID", run.ProcessID)

	if ferr := report.Err(); ferr != nil {
		return fmt.Errorf("run finished with %d failed step(s): %w", len(report.Failed), ferr)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// publisher assembles the event publishers for one run. The returned close
// function is always safe to call.
func (a *App) publisher(ctx context.Context) (events.Publisher, func(), error) {
	pubs := events.Multi{events.LogPublisher{}}
	if a.config.EventsURL == "" {
		return pubs, func() {}, nil
	}

	sio, err := events.DialSocketIO(ctx, events.SocketIOConfig{URL: a.config.EventsURL})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect event stream: %w", err)
	}
	a.logger.Info("Publishing run events.", "url", a.config.EventsURL)
	return append(pubs, sio), func() {
		if err := sio.Close(); err != nil {
			a.logger.Warn("Failed to close event stream.", "error", err)
		}
	}, nil
}

// printPlan writes the roots and the static wave plan without running
// any handler.
func (a *App) printPlan(ctx context.Context, graph *step.Graph) error {
	logger := ctxlog.FromContext(ctx)
	index, err := step.NewIndex(graph)
	if err != nil {
		return err
	}
	if err := index.Cycle(); err != nil {
		logger.Warn("Step graph is cyclic; the iteration ceiling bounds it.", "error", err)
	}

	var roots []string
	for _, r := range scheduler.Roots(graph) {
		roots = append(roots, r.ID)
	}
	waves := scheduler.Plan(graph, a.config.MaxIterations)

	var b strings.Builder
	fmt.Fprintf(&b, "Roots: %s\n", strings.Join(roots, ", "))
	for i, wave := range waves {
		fmt.Fprintf(&b, "Wave %d: %s\n", i+1, strings.Join(wave, ", "))
	}
	planned := 0
	for _, wave := range waves {
		planned += len(wave)
	}
	if planned < graph.Len() {
		fmt.Fprintf(&b, "Unreached: %d of %d steps\n", graph.Len()-planned, graph.Len())
	}
	if _, err := fmt.Fprint(a.outW, b.String()); err != nil {
		return err
	}
	logger.Info("Dry run complete.", "waves", len(waves), "steps", graph.Len())
	return nil
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/events"
	"github.com/specialistvlad/slidegridgo/internal/scheduler"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Execute runs the graph held by run.State to completion and writes the
// run's artifacts to opts.Sink. Step failures are reported in the Report,
// not as an error. An error is returned only when the run could not be
// carried out: the run is incomplete, the options are invalid, or a wave
// hook failed. A hook failure returns without writing artifacts.
func Execute(ctx context.Context, run *Run, opts Options) (*Report, error) {
	if err := run.validate(); err != nil {
		return nil, err
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("processID", run.ProcessID)
	ctx = ctxlog.WithLogger(ctx, logger)

	state := run.State
	graph := state.Graph()
	index := state.Index()
	if err := index.Cycle(); err != nil {
		logger.Warn("Step graph is cyclic; the iteration ceiling bounds it.", "error", err, "maxIterations", opts.MaxIterations)
	}

	w := &walker{
		run:     run,
		opts:    opts,
		graph:   graph,
		index:   index,
		logger:  logger,
		past:    scheduler.NewSet(),
		pending: scheduler.NewSet(),
		blocked: scheduler.NewSet(),
		report:  &Report{ProcessID: run.ProcessID, Failed: make(map[string]error)},
	}

	for _, id := range graph.IDs() {
		run.Store.SetStatus(id, step.StatusPending)
	}
	for _, root := range scheduler.Roots(graph) {
		w.pending.Add(root.ID)
	}

	logger.Info("🚀 Starting run.",
		"steps", graph.Len(),
		"roots", w.pending.IDs(),
		"maxIterations", opts.MaxIterations,
		"failurePolicy", opts.FailurePolicy,
	)
	w.publish(ctx, events.Event{Type: events.RunStarted, Steps: w.pending.IDs()})
	state.InitialCheckpoint()

	if err := w.loop(ctx); err != nil {
		logger.Error("Run aborted.", "error", err)
		return w.report, err
	}

	report := w.report
	for _, id := range graph.IDs() {
		if !w.past.Has(id) && !w.blocked.Has(id) {
			report.Stalled = append(report.Stalled, id)
		}
	}

	// Artifacts are written even when the run was cancelled.
	finalize(context.WithoutCancel(ctx), run, opts.Sink, report)

	w.publish(ctx, events.Event{Type: events.RunFinished, Steps: report.Past})
	logger.Info("🏁 Run finished.",
		"waves", len(report.Waves),
		"completed", len(report.Past)-len(report.Failed),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
		"stalled", len(report.Stalled),
		"ceilingReached", report.CeilingReached,
		"stopRequested", report.StopRequested,
		"checkpoints", state.CheckpointCount(),
	)
	return report, nil
}

// walker holds the bookkeeping of one Execute call. Only the goroutine
// running Execute touches it.
type walker struct {
	run    *Run
	opts   Options
	graph  *step.Graph
	index  *step.Index
	logger *slog.Logger

	past    *scheduler.Set
	pending *scheduler.Set
	blocked *scheduler.Set
	report  *Report
}

type outcome struct {
	step     *step.Step
	err      error
	duration time.Duration
}

func (w *walker) loop(ctx context.Context) error {
	for w.pending.Len() > 0 {
		if w.run.Stopped() || ctx.Err() != nil {
			w.report.StopRequested = true
			w.logger.Warn("Stop requested; no further waves will start.", "pending", w.pending.IDs())
			return nil
		}
		if len(w.report.Waves) >= w.opts.MaxIterations {
			w.report.CeilingReached = true
			w.logger.Warn("Iteration ceiling reached.", "maxIterations", w.opts.MaxIterations, "pending", w.pending.IDs())
			return nil
		}

		ids := w.pending.Drain()
		w.report.Waves = append(w.report.Waves, ids)
		number := len(w.report.Waves)
		wave := make([]*step.Step, 0, len(ids))
		for _, id := range ids {
			st, _ := w.graph.Get(id)
			wave = append(wave, st)
		}

		w.logger.Info("🌊 Starting wave.", "wave", number, "steps", ids)
		w.publish(ctx, events.Event{Type: events.WaveStarted, Wave: number, Steps: ids})
		if w.opts.OnWaveStart != nil {
			if err := w.opts.OnWaveStart(ctx, number, wave, w.run.State); err != nil {
				return fmt.Errorf("wave %d start hook failed: %w", number, err)
			}
		}

		failed := w.runWave(ctx, number, wave)

		if len(failed) > 0 {
			w.logger.Warn("Wave finished with failures.", "wave", number, "failed", failed)
		} else {
			w.logger.Debug("Wave finished.", "wave", number)
		}
		if w.opts.OnWaveComplete != nil {
			if err := w.opts.OnWaveComplete(ctx, number, wave, w.run.State); err != nil {
				return fmt.Errorf("wave %d complete hook failed: %w", number, err)
			}
		}
		w.publish(ctx, events.Event{Type: events.WaveCompleted, Wave: number, Steps: ids})
	}
	return nil
}

// runWave dispatches every step of the wave concurrently and settles each
// one as its result arrives. It returns the ids of the steps that failed.
func (w *walker) runWave(ctx context.Context, number int, wave []*step.Step) []string {
	results := make(chan outcome, len(wave))
	inFlight := scheduler.NewSet()

	for _, st := range wave {
		inFlight.Add(st.ID)
		w.run.Store.SetStatus(st.ID, step.StatusRunning)
		w.logger.Info("▶️ Starting step.", "stepID", st.ID, "kind", st.Kind, "wave", number)
		w.publish(ctx, events.Event{Type: events.StepStarted, Wave: number, StepID: st.ID})

		go func(st *step.Step) {
			start := time.Now()
			err := dispatchStep(ctx, w.run, st)
			results <- outcome{step: st, err: err, duration: time.Since(start)}
		}(st)
	}

	var failed []string
	for range wave {
		o := <-results
		id := o.step.ID
		inFlight.Remove(id)
		w.past.Add(id)
		w.report.Past = append(w.report.Past, id)

		if o.err != nil {
			failed = append(failed, id)
			w.report.Failed[id] = o.err
			w.run.Store.Fail(id, o.err)
			w.logger.Error("❌ Step failed.", "stepID", id, "kind", o.step.Kind, "wave", number, "error", o.err)
			w.publish(ctx, events.Event{Type: events.StepFailed, Wave: number, StepID: id, Error: o.err.Error()})

			if w.opts.FailurePolicy == FailSkipDependents {
				w.skipDownstream(ctx, number, id, inFlight)
				w.run.State.CheckpointStep(id)
				continue
			}
		} else {
			w.run.Store.SetStatus(id, step.StatusCompleted)
			w.logger.Info("✅ Step completed.", "stepID", id, "kind", o.step.Kind, "wave", number, "duration", o.duration)
			w.publish(ctx, events.Event{Type: events.StepCompleted, Wave: number, StepID: id})
		}

		for _, next := range scheduler.Admit(w.graph, o.step, w.past, w.pending) {
			if w.blocked.Has(next.ID) {
				continue
			}
			w.pending.Add(next.ID)
			w.logger.Debug("Step admitted.", "stepID", next.ID, "after", id)
		}
		w.run.State.CheckpointStep(id)
	}
	return failed
}

// skipDownstream marks every step reachable from failedID through next
// edges or dependsOn references as skipped, except steps that already ran or
// are running now.
func (w *walker) skipDownstream(ctx context.Context, number int, failedID string, inFlight *scheduler.Set) {
	queue := append(w.index.Children(failedID), w.index.Dependents(failedID)...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if w.past.Has(id) || inFlight.Has(id) || w.blocked.Has(id) {
			continue
		}
		w.blocked.Add(id)
		w.pending.Remove(id)

		reason := fmt.Errorf("skipped due to upstream failure of '%s'", failedID)
		w.run.Store.Skip(id, reason)
		w.report.Skipped = append(w.report.Skipped, id)
		w.logger.Warn("⏭️ Skipping step.", "stepID", id, "reason", reason)
		w.publish(ctx, events.Event{Type: events.StepSkipped, Wave: number, StepID: id, Error: reason.Error()})

		queue = append(queue, w.index.Children(id)...)
		queue = append(queue, w.index.Dependents(id)...)
	}
}

func (w *walker) publish(ctx context.Context, e events.Event) {
	e.ProcessID = w.run.ProcessID
	e.Time = time.Now()
	if err := w.opts.Publisher.Publish(ctx, e); err != nil {
		w.logger.Warn("Failed to publish event.", "type", e.Type, "error", err)
	}
}

// dispatchStep runs one step and turns a handler panic into that step's
// failure.
func dispatchStep(ctx context.Context, run *Run, st *step.Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step '%s' panicked: %v", st.ID, r)
		}
	}()
	return run.Dispatcher.Dispatch(ctx, run.ProcessID, st, run.State)
}

// finalize writes the run's artifacts. Each artifact is attempted even if
// an earlier one failed.
func finalize(ctx context.Context, run *Run, s sink.Sink, report *Report) {
	logger := ctxlog.FromContext(ctx)
	state := run.State

	artifacts := []struct {
		name  string
		value func() any
	}{
		{sink.OriginalDatamodel, func() any { return state.OriginalDatamodel() }},
		{sink.CurrentDatamodel, func() any { return state.Datamodel() }},
		{sink.Checkpoints, func() any { return state.Checkpoints() }},
		{sink.FinalDatamodel, func() any { return state.Datamodel() }},
		{sink.Changeset, func() any { return state.Changeset() }},
		{sink.Graph, func() any { return state.Graph() }},
	}

	for _, a := range artifacts {
		if err := s.Put(ctx, run.ProcessID, a.name, a.value()); err != nil {
			logger.Error("Failed to persist artifact.", "artifact", a.name, "error", err)
			report.PersistErrors = append(report.PersistErrors, fmt.Errorf("%s: %w", a.name, err))
			continue
		}
		logger.Debug("Artifact persisted.", "artifact", a.name)
	}
}

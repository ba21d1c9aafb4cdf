package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/specialistvlad/slidegridgo/internal/inmemorystore"
	"github.com/specialistvlad/slidegridgo/internal/runstate"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Dispatcher executes one step against the run state.
type Dispatcher interface {
	Dispatch(ctx context.Context, processID string, st *step.Step, state *runstate.State) error
}

// Run is everything one execution owns.
type Run struct {
	ProcessID  string
	State      *runstate.State
	Dispatcher Dispatcher
	Store      *inmemorystore.Store

	stop atomic.Bool
}

// NewRun assembles a run. An empty processID is replaced by a random UUID.
func NewRun(processID string, state *runstate.State, d Dispatcher) *Run {
	if processID == "" {
		processID = uuid.NewString()
	}
	return &Run{
		ProcessID:  processID,
		State:      state,
		Dispatcher: d,
		Store:      inmemorystore.New(),
	}
}

// Stop asks the run to end. It is honoured before the next wave starts;
// the wave in flight always settles.
func (r *Run) Stop() {
	r.stop.Store(true)
}

// Stopped reports whether Stop was called.
func (r *Run) Stopped() bool {
	return r.stop.Load()
}

func (r *Run) validate() error {
	switch {
	case r == nil:
		return errors.New("engine: run is nil")
	case r.State == nil:
		return errors.New("engine: run has no state")
	case r.Dispatcher == nil:
		return errors.New("engine: run has no dispatcher")
	}
	if r.Store == nil {
		r.Store = inmemorystore.New()
	}
	if r.ProcessID == "" {
		r.ProcessID = uuid.NewString()
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	ProcessID string
	// Waves holds the step ids of each wave in dispatch order.
	Waves [][]string
	// Past holds every step that ran, in completion order.
	Past   []string
	Failed map[string]error
	// Skipped holds steps cut off by FailSkipDependents.
	Skipped []string
	// Stalled holds steps that never ran and were not skipped.
	Stalled        []string
	CeilingReached bool
	StopRequested  bool
	PersistErrors  []error
}

// Err joins the failures of every failed step in completion order. It is
// nil when every step that ran succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, id := range r.Past {
		if err, failed := r.Failed[id]; failed {
			errs = append(errs, fmt.Errorf("step '%s': %w", id, err))
		}
	}
	return errors.Join(errs...)
}

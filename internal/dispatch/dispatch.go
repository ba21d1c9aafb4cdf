package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/runstate"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

var (
	// ErrUnknownStepKind is returned for a step whose kind is not one of the known variants.
	ErrUnknownStepKind = errors.New("unknown step kind")
	// ErrNoHandler is returned when no handler is registered for a step's kind.
	ErrNoHandler = errors.New("no handler registered")
	// ErrMissingLayoutIDs is returned when a relayouter's layout lacks an expected id.
	ErrMissingLayoutIDs = errors.New("layout is missing expected ids")
)

// Dispatcher executes single steps against a registry of handlers.
type Dispatcher struct {
	registry *registry.Registry
}

// New creates a Dispatcher backed by r.
func New(r *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Dispatch runs st and applies its effects to state. Any returned error is
// the step's failure; the state is unchanged in that case except for
// effects the step had already committed.
func (d *Dispatcher) Dispatch(ctx context.Context, processID string, st *step.Step, state *runstate.State) error {
	logger := ctxlog.FromContext(ctx).With("stepID", st.ID, "kind", st.Kind)
	logger.Debug("Dispatching step.")

	switch st.Kind {
	case step.KindRelayouter:
		return d.relayout(ctx, processID, st, state)
	case step.KindCoupler:
		return d.couple(ctx, processID, st, state)
	case step.KindExecutor:
		return d.execute(ctx, processID, st, state)
	default:
		return fmt.Errorf("%w: '%s' (step '%s')", ErrUnknownStepKind, st.Kind, st.ID)
	}
}

func (d *Dispatcher) relayout(ctx context.Context, processID string, st *step.Step, state *runstate.State) error {
	h, ok := d.registry.Relayouter()
	if !ok {
		return fmt.Errorf("%w for kind '%s'", ErrNoHandler, st.Kind)
	}

	layout, err := h.Relayout(ctx, registry.RelayoutInput{
		ProcessID:         processID,
		StepID:            st.ID,
		Task:              st.Task,
		AddContext:        st.AddContext,
		ExpectedLayoutIDs: append([]string(nil), st.ExpectedLayoutIDs...),
		Layout:            state.Layout(),
		Datamodel:         state.Datamodel(),
	})
	if err != nil {
		return fmt.Errorf("relayouter '%s' failed: %w", st.ID, err)
	}
	if layout == nil {
		return fmt.Errorf("relayouter '%s' returned no layout", st.ID)
	}
	if missing := document.MissingLayoutIDs(layout, st.ExpectedLayoutIDs); len(missing) > 0 {
		return fmt.Errorf("relayouter '%s': %w: %s", st.ID, ErrMissingLayoutIDs, strings.Join(missing, ", "))
	}

	state.ReplaceLayout(layout)
	return state.SetResult(st.ID, layout.Clone())
}

func (d *Dispatcher) couple(ctx context.Context, processID string, st *step.Step, state *runstate.State) error {
	h, ok := d.registry.Coupler()
	if !ok {
		return fmt.Errorf("%w for kind '%s'", ErrNoHandler, st.Kind)
	}

	relative := document.RelativeLayout(state.OriginalLayout(), state.Datamodel().Shapes)
	text, err := h.Couple(ctx, registry.CouplerInput{
		ProcessID:  processID,
		StepID:     st.ID,
		Task:       st.Task,
		AddContext: st.AddContext,
		Next:       append([]string(nil), st.Next...),
		Layout:     relative,
		GoalLayout: state.Layout(),
	})
	if err != nil {
		return fmt.Errorf("coupler '%s' failed: %w", st.ID, err)
	}
	return state.SetResult(st.ID, text)
}

func (d *Dispatcher) execute(ctx context.Context, processID string, st *step.Step, state *runstate.State) error {
	h, ok := d.registry.Executor()
	if !ok {
		return fmt.Errorf("%w for kind '%s'", ErrNoHandler, st.Kind)
	}

	datamodel := state.Datamodel()
	scope, err := document.FindLayout(state.Layout(), st.LayoutID)
	if err != nil {
		return fmt.Errorf("executor '%s': %w", st.ID, err)
	}

	cs, err := h.Execute(ctx, registry.ExecutorInput{
		ProcessID:   processID,
		StepID:      st.ID,
		Task:        st.Task,
		AddContext:  st.AddContext,
		LayoutID:    st.LayoutID,
		Layout:      scope,
		Shapes:      datamodel.Filter(document.ShapeIDs(scope)),
		Datamodel:   datamodel,
		Constraints: state.CouplerConstraints(st.ID),
	})
	if err != nil {
		return fmt.Errorf("executor '%s' failed: %w", st.ID, err)
	}
	if cs == nil {
		cs = &document.Changeset{}
	}
	if err := state.MergeChangeset(cs); err != nil {
		return fmt.Errorf("executor '%s': %w", st.ID, err)
	}
	return state.SetResult(st.ID, cs)
}

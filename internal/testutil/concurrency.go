package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/registry"
)

// RecordingModule is a shared, self-contained module for scheduling tests.
// It serves all three step kinds, records the execution window of each step
// and the order in which steps started, and returns whatever the per-step
// scripts say. Steps without a script succeed with an empty result.
type RecordingModule struct {
	Sleep      time.Duration
	Layouts    map[string]*document.Layout
	Texts      map[string]string
	Changesets map[string]*document.Changeset
	Errors     map[string]error
	Panics     map[string]bool

	mu             sync.Mutex
	executionTimes map[string]ExecutionRecord
	started        []string
	executorInputs map[string]registry.ExecutorInput
	couplerInputs  map[string]registry.CouplerInput
}

// NewRecordingModule creates a module whose handlers sleep for the given
// duration before returning.
func NewRecordingModule(sleep time.Duration) *RecordingModule {
	return &RecordingModule{
		Sleep:          sleep,
		Layouts:        make(map[string]*document.Layout),
		Texts:          make(map[string]string),
		Changesets:     make(map[string]*document.Changeset),
		Errors:         make(map[string]error),
		Panics:         make(map[string]bool),
		executionTimes: make(map[string]ExecutionRecord),
		executorInputs: make(map[string]registry.ExecutorInput),
		couplerInputs:  make(map[string]registry.CouplerInput),
	}
}

// Register registers the module's handlers for every kind.
func (m *RecordingModule) Register(r *registry.Registry) {
	r.RegisterRelayouter("recording", registry.RelayoutFunc(func(ctx context.Context, in registry.RelayoutInput) (*document.Layout, error) {
		err := m.run(in.StepID)
		if err != nil {
			return nil, err
		}
		if l, ok := m.Layouts[in.StepID]; ok {
			return l.Clone(), nil
		}
		return in.Layout, nil
	}))
	r.RegisterCoupler("recording", registry.CouplerFunc(func(ctx context.Context, in registry.CouplerInput) (string, error) {
		m.mu.Lock()
		m.couplerInputs[in.StepID] = in
		m.mu.Unlock()
		if err := m.run(in.StepID); err != nil {
			return "", err
		}
		return m.Texts[in.StepID], nil
	}))
	r.RegisterExecutor("recording", registry.ExecutorFunc(func(ctx context.Context, in registry.ExecutorInput) (*document.Changeset, error) {
		m.mu.Lock()
		m.executorInputs[in.StepID] = in
		m.mu.Unlock()
		if err := m.run(in.StepID); err != nil {
			return nil, err
		}
		return m.Changesets[in.StepID], nil
	}))
}

func (m *RecordingModule) run(id string) error {
	start := time.Now()
	m.mu.Lock()
	m.started = append(m.started, id)
	m.mu.Unlock()

	if m.Sleep > 0 {
		time.Sleep(m.Sleep)
	}

	m.mu.Lock()
	m.executionTimes[id] = ExecutionRecord{Start: start, End: time.Now()}
	m.mu.Unlock()

	if m.Panics[id] {
		panic("scripted panic in " + id)
	}
	return m.Errors[id]
}

// Started returns the ids of every executed step in start order.
func (m *RecordingModule) Started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.started...)
}

// Execution returns the recorded execution window of a step.
func (m *RecordingModule) Execution(id string) (ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.executionTimes[id]
	return rec, ok
}

// ExecutorInput returns what the executor handler received for a step.
func (m *RecordingModule) ExecutorInput(id string) (registry.ExecutorInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.executorInputs[id]
	return in, ok
}

// CouplerInput returns what the coupler handler received for a step.
func (m *RecordingModule) CouplerInput(id string) (registry.CouplerInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.couplerInputs[id]
	return in, ok
}

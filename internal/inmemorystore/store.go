// Package inmemorystore provides an ephemeral, thread-safe record of what
// happened to each step during a run.
//
// # Purpose
//
// The wave scheduler dispatches steps concurrently and each dispatch reports
// back on its own goroutine. This store is where those reports land: the
// current status of every step, its error if it failed, and when it started
// and finished. The health-check server and the final run report both read
// from it.
//
// # Concurrency Model
//
// The store uses sync.Map. The key space is known upfront (the step ids of
// one graph) while values change frequently from many goroutines, which is
// the access pattern sync.Map is built for.
//
// Documents (datamodel and layout) are not kept here; they live in
// runstate.State behind its mutex.
package inmemorystore

import (
	"sort"
	"sync"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Record is a point-in-time view of one step.
type Record struct {
	ID         string      `json:"id"`
	Status     step.Status `json:"status"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"startedAt,omitzero"`
	FinishedAt time.Time   `json:"finishedAt,omitzero"`
}

// Store is an in-memory step status store.
//
// The store maintains independent sync.Maps:
//   - states: step id to step.Status
//   - errors: step id to the error that failed or skipped the step
//   - started/finished: step id to a time.Time
type Store struct {
	states   sync.Map
	errors   sync.Map
	started  sync.Map
	finished sync.Map
	now      func() time.Time
}

// New creates a new, empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// SetStatus updates the status of a step. Running stamps the start time;
// Completed, Failed and Skipped stamp the finish time.
func (s *Store) SetStatus(id string, status step.Status) {
	s.states.Store(id, status)
	switch status {
	case step.StatusRunning:
		s.started.Store(id, s.now())
	case step.StatusCompleted, step.StatusFailed, step.StatusSkipped:
		s.finished.Store(id, s.now())
	}
}

// GetStatus returns the status of a step, StatusPending if none was set.
func (s *Store) GetStatus(id string) step.Status {
	status, ok := s.states.Load(id)
	if !ok {
		return step.StatusPending
	}
	return status.(step.Status)
}

// SetError records the error of a failed or skipped step.
func (s *Store) SetError(id string, err error) {
	s.errors.Store(id, err)
}

// GetError returns the recorded error of a step, or nil.
func (s *Store) GetError(id string) error {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil
	}
	return err.(error)
}

// Fail marks a step as failed with err.
func (s *Store) Fail(id string, err error) {
	s.SetError(id, err)
	s.SetStatus(id, step.StatusFailed)
}

// Skip marks a step as skipped because of err.
func (s *Store) Skip(id string, err error) {
	s.SetError(id, err)
	s.SetStatus(id, step.StatusSkipped)
}

// Snapshot returns a record for every step the store has seen, sorted by id.
func (s *Store) Snapshot() []Record {
	var out []Record
	s.states.Range(func(key, value any) bool {
		id := key.(string)
		r := Record{ID: id, Status: value.(step.Status)}
		if err := s.GetError(id); err != nil {
			r.Error = err.Error()
		}
		if t, ok := s.started.Load(id); ok {
			r.StartedAt = t.(time.Time)
		}
		if t, ok := s.finished.Load(id); ok {
			r.FinishedAt = t.(time.Time)
		}
		out = append(out, r)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns how many steps currently have the given status.
func (s *Store) Count(status step.Status) int {
	n := 0
	s.states.Range(func(_, value any) bool {
		if value.(step.Status) == status {
			n++
		}
		return true
	})
	return n
}

// Package events publishes run progress. The engine emits an Event at each
// milestone of a run; publishers forward it to logs, to a socket.io server,
// or to a test recorder. A failing publisher never fails the run.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
)

// Type names a milestone.
type Type string

const (
	RunStarted    Type = "run_started"
	WaveStarted   Type = "wave_started"
	StepStarted   Type = "step_started"
	StepCompleted Type = "step_completed"
	StepFailed    Type = "step_failed"
	StepSkipped   Type = "step_skipped"
	WaveCompleted Type = "wave_completed"
	RunFinished   Type = "run_finished"
)

// Event is one progress notification.
type Event struct {
	Type      Type
	ProcessID string
	Wave      int
	StepID    string
	Steps     []string
	Error     string
	Time      time.Time
}

// Payload renders the event as a JSON-friendly map.
func (e Event) Payload() map[string]any {
	p := map[string]any{
		"type":      string(e.Type),
		"processId": e.ProcessID,
		"time":      e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.Wave > 0 {
		p["wave"] = e.Wave
	}
	if e.StepID != "" {
		p["stepId"] = e.StepID
	}
	if len(e.Steps) > 0 {
		steps := make([]any, len(e.Steps))
		for i, s := range e.Steps {
			steps[i] = s
		}
		p["steps"] = steps
	}
	if e.Error != "" {
		p["error"] = e.Error
	}
	return p
}

// Publisher receives events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// LogPublisher writes every event to the context logger at debug level.
type LogPublisher struct{}

// Publish implements Publisher.
func (LogPublisher) Publish(ctx context.Context, e Event) error {
	logger := ctxlog.FromContext(ctx)
	args := []any{"type", e.Type, "processID", e.ProcessID}
	if e.Wave > 0 {
		args = append(args, "wave", e.Wave)
	}
	if e.StepID != "" {
		args = append(args, "stepID", e.StepID)
	}
	if e.Error != "" {
		args = append(args, "error", e.Error)
	}
	logger.Debug("Event published.", args...)
	return nil
}

// Multi fans an event out to several publishers. Every publisher is called;
// their errors are joined.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of every recorded event in arrival order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

package step

import "fmt"

// Status is the execution state of a step within one run.
type Status int32

const (
	// StatusPending is the zero value: the step has not been dispatched.
	StatusPending Status = iota
	// StatusRunning means the step's handler is in flight.
	StatusRunning
	// StatusCompleted means the handler returned without error.
	StatusCompleted
	// StatusFailed means the handler or the fold of its result failed.
	StatusFailed
	// StatusSkipped means an upstream failure prevented the step from running.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses render by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusSkipped} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown step status %q", text)
}

package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slidegridgo/internal/events"
	"github.com/specialistvlad/slidegridgo/internal/runstate"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// DefaultMaxIterations is the wave ceiling used when Options leaves it unset.
const DefaultMaxIterations = 10

// FailurePolicy decides what a failed step means for its successors.
type FailurePolicy string

const (
	// FailContinue treats a failed step like a completed one: its
	// successors are admitted as usual.
	FailContinue FailurePolicy = "continue"
	// FailSkipDependents admits no successors of a failed step and marks
	// every step downstream of it as skipped.
	FailSkipDependents FailurePolicy = "skip-dependents"
)

// ParseFailurePolicy converts a flag value to a FailurePolicy. The empty
// string selects FailContinue.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailContinue:
		return FailContinue, nil
	case FailSkipDependents:
		return FailSkipDependents, nil
	default:
		return "", fmt.Errorf("invalid failure policy '%s': must be one of '%s', '%s'", s, FailContinue, FailSkipDependents)
	}
}

// WaveHook observes a wave. An error returned from a hook aborts the run.
type WaveHook func(ctx context.Context, wave int, steps []*step.Step, state *runstate.State) error

// Options tune a single Execute call. The zero value is usable.
type Options struct {
	MaxIterations  int
	FailurePolicy  FailurePolicy
	Sink           sink.Sink
	Publisher      events.Publisher
	OnWaveStart    WaveHook
	OnWaveComplete WaveHook
}

func (o Options) withDefaults() (Options, error) {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	policy, err := ParseFailurePolicy(string(o.FailurePolicy))
	if err != nil {
		return o, err
	}
	o.FailurePolicy = policy
	if o.Sink == nil {
		o.Sink = sink.Nop{}
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop{}
	}
	return o, nil
}

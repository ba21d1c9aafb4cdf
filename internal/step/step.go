package step

import (
	"fmt"
	"slices"
)

// Kind is the variant tag of a step.
type Kind string

const (
	// KindRelayouter manipulates the layout structure.
	KindRelayouter Kind = "relayouter"
	// KindCoupler produces shared layout constraints for later executors.
	KindCoupler Kind = "coupler"
	// KindExecutor manipulates shapes within one layout region.
	KindExecutor Kind = "executor"
)

// Kinds lists every known step kind in a stable order.
var Kinds = []Kind{KindRelayouter, KindCoupler, KindExecutor}

// Valid reports whether k is a known step kind.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown step kind %q", s)
	}
	return k, nil
}

// Step is a single node of the step graph. Result is empty until the step
// has run; its concrete type depends on Kind.
type Step struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"type"`
	Task       string   `json:"task"`
	Next       []string `json:"next,omitempty"`
	DependsOn  []string `json:"dependsOn,omitempty"`
	AddContext string   `json:"add_context,omitempty"`

	// ExpectedLayoutIDs is only meaningful for relayouter steps.
	ExpectedLayoutIDs []string `json:"expected_layout_ids,omitempty"`
	// LayoutID scopes an executor step to one region of the layout.
	LayoutID string `json:"layoutId,omitempty"`

	Result any `json:"result,omitempty"`
}

// Clone returns a copy of s with its own slices. Result is shared; results
// are written once and never mutated afterwards.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	c := *s
	c.Next = slices.Clone(s.Next)
	c.DependsOn = slices.Clone(s.DependsOn)
	c.ExpectedLayoutIDs = slices.Clone(s.ExpectedLayoutIDs)
	return &c
}

// String implements fmt.Stringer.
func (s *Step) String() string {
	return fmt.Sprintf("%s.%s", s.Kind, s.ID)
}

package step

import (
	"errors"
	"fmt"
)

// ErrInvalidGraph is returned when a graph fails structural validation.
var ErrInvalidGraph = errors.New("invalid step graph")

// Validate checks the structural integrity of the graph: unique non-empty
// ids, known kinds, and next/dependsOn lists that only name existing steps
// other than the step itself. All problems are reported together.
func (g *Graph) Validate() error {
	var problems []error
	seen := make(map[string]struct{}, len(g.steps))

	for i, s := range g.steps {
		if s.ID == "" {
			problems = append(problems, fmt.Errorf("step #%d has an empty id", i))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate step id '%s'", s.ID))
		}
		seen[s.ID] = struct{}{}

		if !s.Kind.Valid() {
			problems = append(problems, fmt.Errorf("step '%s' has unknown kind %q", s.ID, s.Kind))
		}
	}

	for _, s := range g.steps {
		if s.ID == "" {
			continue
		}
		problems = append(problems, g.checkRefs(s, "next", s.Next)...)
		problems = append(problems, g.checkRefs(s, "dependsOn", s.DependsOn)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidGraph, errors.Join(problems...))
	}
	return nil
}

func (g *Graph) checkRefs(s *Step, field string, refs []string) []error {
	var problems []error
	for _, ref := range refs {
		if ref == s.ID {
			problems = append(problems, fmt.Errorf("step '%s' lists itself in %s", s.ID, field))
			continue
		}
		if _, ok := g.byID[ref]; !ok {
			problems = append(problems, fmt.Errorf("step '%s' references unknown step '%s' in %s", s.ID, ref, field))
		}
	}
	return problems
}

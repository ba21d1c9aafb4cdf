package scheduler

import (
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Roots returns every step that no other step lists in Next, in graph order.
func Roots(g *step.Graph) []*step.Step {
	pointedAt := make(map[string]struct{})
	for _, s := range g.Steps() {
		for _, n := range s.Next {
			pointedAt[n] = struct{}{}
		}
	}

	var roots []*step.Step
	for _, s := range g.Steps() {
		if _, ok := pointedAt[s.ID]; !ok {
			roots = append(roots, s)
		}
	}
	return roots
}

// Admit returns the successors of completed that may join pending now, in
// the order completed lists them. It does not modify past or pending.
func Admit(g *step.Graph, completed *step.Step, past, pending *Set) []*step.Step {
	var admitted []*step.Step
	seen := make(map[string]struct{})

	for _, id := range completed.Next {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		candidate, ok := g.Get(id)
		if !ok || past.Has(id) || pending.Has(id) {
			continue
		}
		if !DependenciesMet(candidate, past) {
			continue
		}
		admitted = append(admitted, candidate)
	}
	return admitted
}

// DependenciesMet reports whether every id in s.DependsOn is in past.
func DependenciesMet(s *step.Step, past *Set) bool {
	for _, dep := range s.DependsOn {
		if !past.Has(dep) {
			return false
		}
	}
	return true
}

// Plan simulates a run in which every step succeeds and returns the ids of
// each wave. It stops after maxWaves waves. The plan matches what the
// engine executes under either failure policy when nothing fails.
func Plan(g *step.Graph, maxWaves int) [][]string {
	past, pending := NewSet(), NewSet()
	for _, r := range Roots(g) {
		pending.Add(r.ID)
	}

	var waves [][]string
	for pending.Len() > 0 && len(waves) < maxWaves {
		wave := pending.Drain()
		waves = append(waves, wave)
		for _, id := range wave {
			past.Add(id)
			s, _ := g.Get(id)
			for _, next := range Admit(g, s, past, pending) {
				pending.Add(next.ID)
			}
		}
	}
	return waves
}

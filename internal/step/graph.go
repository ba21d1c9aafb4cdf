package step

import (
	"encoding/json"
	"fmt"
)

// Graph is an ordered collection of steps. It is not safe for concurrent
// use; during a run it is owned by runstate.State, which serializes access.
type Graph struct {
	steps []*Step
	byID  map[string]*Step
}

// NewGraph builds a graph from steps, keeping their order. The steps are
// stored as given, not copied. When ids repeat, lookups resolve to the first
// occurrence; Validate reports the duplicate.
func NewGraph(steps []*Step) *Graph {
	g := &Graph{
		steps: make([]*Step, 0, len(steps)),
		byID:  make(map[string]*Step, len(steps)),
	}
	for _, s := range steps {
		if s == nil {
			continue
		}
		g.steps = append(g.steps, s)
		if _, exists := g.byID[s.ID]; !exists {
			g.byID[s.ID] = s
		}
	}
	return g
}

// Len returns the number of steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Steps returns the steps in declaration order. The slice is a copy; the
// pointers are not.
func (g *Graph) Steps() []*Step {
	return append([]*Step(nil), g.steps...)
}

// IDs returns every step id in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.steps))
	for i, s := range g.steps {
		ids[i] = s.ID
	}
	return ids
}

// Get looks a step up by id.
func (g *Graph) Get(id string) (*Step, bool) {
	s, ok := g.byID[id]
	return s, ok
}

// SetResult writes a step's result back into the graph.
func (g *Graph) SetResult(id string, result any) error {
	s, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("step '%s' not found in graph", id)
	}
	s.Result = result
	return nil
}

// Clone returns a deep copy of the graph's step records.
func (g *Graph) Clone() *Graph {
	steps := make([]*Step, len(g.steps))
	for i, s := range g.steps {
		steps[i] = s.Clone()
	}
	return NewGraph(steps)
}

// MarshalJSON renders the graph as the plain list of its steps.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.steps)
}

// UnmarshalJSON reads a plain list of steps.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var steps []*Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	*g = *NewGraph(steps)
	return nil
}

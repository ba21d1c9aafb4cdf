// Package runstate holds the mutable state of one run: the step graph, the
// evolving datamodel and layout tree, and the checkpoint log.
//
// Every write goes through a single mutex. Readers receive deep copies taken
// under the same mutex, so a handler can never observe a half-applied
// changeset or a layout that is being swapped out.
package runstate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// State is the shared document state of a single run.
type State struct {
	mu sync.Mutex

	graph *step.Graph
	index *step.Index

	originalLayout    *document.Layout
	layout            *document.Layout
	originalDatamodel *document.Datamodel
	datamodel         *document.Datamodel

	checkpoints []Checkpoint
}

// New validates graph and takes private copies of the starting documents.
func New(graph *step.Graph, datamodel *document.Datamodel, layout *document.Layout) (*State, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: graph is nil", step.ErrInvalidGraph)
	}
	if datamodel == nil {
		datamodel = &document.Datamodel{}
	}
	index, err := step.NewIndex(graph)
	if err != nil {
		return nil, err
	}
	return &State{
		graph:             graph.Clone(),
		index:             index,
		originalLayout:    layout.Clone(),
		layout:            layout.Clone(),
		originalDatamodel: datamodel.Clone(),
		datamodel:         datamodel.Clone(),
	}, nil
}

// Index returns the adjacency index of the graph. It is immutable.
func (s *State) Index() *step.Index {
	return s.index
}

// Steps returns copies of every step in declaration order.
func (s *State) Steps() []*step.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone().Steps()
}

// Step returns a copy of the step with the given id.
func (s *State) Step(id string) (*step.Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.graph.Get(id)
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

// Graph returns a copy of the graph including every result written so far.
func (s *State) Graph() *step.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone()
}

// OriginalLayout returns a copy of the layout the run started from.
func (s *State) OriginalLayout() *document.Layout {
	return s.originalLayout.Clone()
}

// OriginalDatamodel returns a copy of the datamodel the run started from.
func (s *State) OriginalDatamodel() *document.Datamodel {
	return s.originalDatamodel.Clone()
}

// Layout returns a copy of the current layout tree.
func (s *State) Layout() *document.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// Datamodel returns a copy of the current datamodel.
func (s *State) Datamodel() *document.Datamodel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.datamodel.Clone()
}

// ReplaceLayout swaps the current layout tree. Concurrent replacements are
// serialized; the last one wins.
func (s *State) ReplaceLayout(l *document.Layout) {
	c := l.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = c
}

// MergeChangeset applies cs to the current datamodel. On error the datamodel
// is left exactly as it was.
func (s *State) MergeChangeset(cs *document.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := document.Merge(s.datamodel, cs)
	if err != nil {
		return fmt.Errorf("failed to merge changeset: %w", err)
	}
	s.datamodel = next
	return nil
}

// SetResult writes a step's result back into the graph.
func (s *State) SetResult(id string, result any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.SetResult(id, result)
}

// CouplerConstraints joins the results of every coupler step upstream of
// id. Ancestors are found by walking next edges backwards breadth-first;
// the collected couplers are reversed so the furthest one comes first.
func (s *State) CouplerConstraints(id string) string {
	ancestors := s.index.Ancestors(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	var results []string
	for _, aid := range ancestors {
		st, ok := s.graph.Get(aid)
		if !ok || st.Kind != step.KindCoupler {
			continue
		}
		results = append(results, resultText(st.Result))
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return strings.Join(results, "\n\n")
}

func resultText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Changeset computes the cumulative changeset from the original datamodel
// to the current one.
func (s *State) Changeset() *document.Changeset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return document.Diff(s.originalDatamodel, s.datamodel)
}

package step

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/slidegridgo/internal/dag"
)

// Index is a read-only adjacency index over a validated graph, built once
// per run. It answers reverse lookups without rescanning every step.
type Index struct {
	topology   *dag.Graph
	dependents map[string][]string
}

// NewIndex validates g and indexes its "next" edges and the reverse of every
// dependsOn list.
func NewIndex(g *Graph) (*Index, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	topology := dag.New()
	for _, s := range g.steps {
		topology.AddNode(s.ID)
	}
	for _, s := range g.steps {
		for _, next := range s.Next {
			if err := topology.AddEdge(s.ID, next); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
			}
		}
	}
	dependents := make(map[string][]string)
	for _, s := range g.steps {
		for _, dep := range s.DependsOn {
			if !slices.Contains(dependents[dep], s.ID) {
				dependents[dep] = append(dependents[dep], s.ID)
			}
		}
	}
	return &Index{topology: topology, dependents: dependents}, nil
}

// Parents returns the steps that list id in their next, in declaration order.
func (x *Index) Parents(id string) []string {
	parents, err := x.topology.Dependencies(id)
	if err != nil {
		return nil
	}
	return parents
}

// Children returns the de-duplicated next list of id.
func (x *Index) Children(id string) []string {
	children, err := x.topology.Dependents(id)
	if err != nil {
		return nil
	}
	return children
}

// Dependents returns the steps that list id in their dependsOn, in
// declaration order.
func (x *Index) Dependents(id string) []string {
	return slices.Clone(x.dependents[id])
}

// Ancestors walks next edges backwards, breadth-first, starting at id. The
// start id is included first.
func (x *Index) Ancestors(id string) []string {
	ancestors, err := x.topology.Ancestors(id)
	if err != nil {
		return nil
	}
	return ancestors
}

// Cycle returns a non-nil error describing a cycle when the next edges form
// one. Cyclic graphs are still runnable; the iteration ceiling bounds them.
func (x *Index) Cycle() error {
	return x.topology.DetectCycles()
}

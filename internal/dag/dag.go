package dag

import (
	"fmt"
	"sync"
)

// Graph is a directed graph of string-identified nodes. Edges keep their
// insertion order on both ends so traversals are deterministic.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	order []string
}

type node struct {
	id         string
	deps       []string
	dependents []string
	depSet     map[string]struct{}
	childSet   map[string]struct{}
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:       id,
		depSet:   make(map[string]struct{}),
		childSet: make(map[string]struct{}),
	}
	g.order = append(g.order, id)
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. Adding the same
// edge twice is a no-op. An error is returned if either node does not exist
// or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, exists := toNode.depSet[fromID]; exists {
		return nil
	}
	toNode.depSet[fromID] = struct{}{}
	toNode.deps = append(toNode.deps, fromID)
	fromNode.childSet[toID] = struct{}{}
	fromNode.dependents = append(fromNode.dependents, toID)

	return nil
}

// Dependencies returns the IDs of the nodes the given node depends on, in
// the order the edges were added.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.deps...), nil
}

// Dependents returns the IDs of the nodes that depend on the given node, in
// the order the edges were added.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string(nil), n.dependents...), nil
}

// Ancestors walks dependency edges breadth-first starting at id and returns
// every node reached, the start node first. Each node appears once.
func (g *Graph) Ancestors(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	visited := make(map[string]struct{})
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		out = append(out, current)

		for _, parent := range g.nodes[current].deps {
			if _, seen := visited[parent]; !seen {
				queue = append(queue, parent)
			}
		}
	}
	return out, nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: fully visited, not part of a cycle.
	// temporary: on the current recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true
		for _, dependent := range n.dependents {
			if err := visit(g.nodes[dependent]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}

	return nil
}

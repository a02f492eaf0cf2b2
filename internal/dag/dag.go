package dag

import (
	"fmt"
)

// node is a single vertex with its adjacency sets. The insertion index is
// kept so ordering can break ties by declaration order.
type node struct {
	id         string
	index      int
	deps       map[string]*node
	dependents map[string]*node
}

// Graph is a directed graph keyed by node id. It is built fresh per
// validation or run and never shared between invocations, so it carries no
// locking.
type Graph struct {
	nodes map[string]*node
	order []string
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		index:      len(g.order),
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID`
// node, meaning `toID` depends on `fromID`. An error is returned if either
// node does not exist or if the edge would be a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Dependencies returns the ids the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	deps := make([]string, 0, len(n.deps))
	for depID := range n.deps {
		deps = append(deps, depID)
	}
	return deps, nil
}

// DetectCycles checks the graph for cycles. It returns a non-nil error if a
// cycle is found, naming a node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three node sets: permanently visited,
	// on the current recursion stack, and unvisited.
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
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	// Visit in insertion order so the reported node is deterministic.
	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopoOrder returns a topological ordering of all node ids. Ties are broken
// by insertion order, so for a fixed graph the result is deterministic. A
// cycle yields an error and no ordering.
func (g *Graph) TopoOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
	}

	// Kahn's algorithm over a ready list kept in insertion order. The scan
	// for the lowest-index ready node is quadratic, which is fine at the
	// stage counts pipelines declare.
	ordered := make([]string, 0, len(g.nodes))
	done := make(map[string]bool, len(g.nodes))

	for len(ordered) < len(g.nodes) {
		next := ""
		for _, id := range g.order {
			if !done[id] && indegree[id] == 0 {
				next = id
				break
			}
		}
		if next == "" {
			return nil, fmt.Errorf("cycle detected: %d node(s) cannot be ordered", len(g.nodes)-len(ordered))
		}

		done[next] = true
		ordered = append(ordered, next)
		for depID := range g.nodes[next].dependents {
			indegree[depID]--
		}
	}

	return ordered, nil
}

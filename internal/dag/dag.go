// Package dag validates the internal-connection graph of a model
// definition before it is compiled. Nodes are component instance names in
// declaration order; edges run from a connection's source to its
// destination. The builder uses it for cycle detection (component-major
// execution cannot honor cyclic data flow) and for flagging connections
// whose source is declared after its destination.
package dag

import "fmt"

// Graph is a directed graph over component instance names. It is built and
// queried by a single goroutine during a build; it is not concurrency-safe.
type Graph struct {
	order []string
	pos   map[string]int
	deps  map[string][]string // node -> nodes it feeds (successors)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		pos:  make(map[string]int),
		deps: make(map[string][]string),
	}
}

// AddNode appends a node. Re-adding an existing ID does nothing; the
// builder guarantees instance-name uniqueness before this point.
func (g *Graph) AddNode(id string) {
	if _, ok := g.pos[id]; ok {
		return
	}
	g.pos[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge records that data flows from fromID to toID. Both nodes must
// exist; a self-referential edge is rejected.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential connection not allowed: %s -> %s", fromID, toID)
	}
	if _, ok := g.pos[fromID]; !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.pos[toID]; !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	g.deps[fromID] = append(g.deps[fromID], toID)
	return nil
}

// DetectCycles returns a non-nil error if the graph contains a cycle,
// naming the first node found inside one.
func (g *Graph) DetectCycles() error {
	// Depth-first search with three node sets: permanent (fully visited),
	// temporary (on the current recursion stack), and unvisited.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("cycle detected involving component %q", id)
		}
		temporary[id] = true
		for _, succ := range g.deps[id] {
			if err := visit(succ); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// BackEdges returns the edges whose source is declared after its
// destination. Declaration order is execution order, so such a connection
// reads values its source has not produced yet; the builder reports these
// as warnings rather than errors to preserve the declaration-order
// contract.
func (g *Graph) BackEdges() [][2]string {
	var back [][2]string
	for from, succs := range g.deps {
		for _, to := range succs {
			if g.pos[from] > g.pos[to] {
				back = append(back, [2]string{from, to})
			}
		}
	}
	return back
}

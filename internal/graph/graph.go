// Package graph holds the directed weighted road map the router searches.
package graph

import "sync"

// Graph holds nodes by label and edges by ordered label pair.
// It only grows: there is no way to remove a node or an edge.
//
// Per-node scratch state makes a Graph single-query: callers that search it
// from several goroutines must hold Lock for the whole search.
type Graph struct {
	sync.Mutex

	nodes map[string]*Node
	order []*Node // insertion order, so searches are deterministic
	edges map[edgeKey]*Edge
}

// New allocates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// UpsertNode returns the node for label, creating it if needed.
func (g *Graph) UpsertNode(label string) *Node {
	if n, ok := g.nodes[label]; ok {
		return n
	}
	n := newNode(label)
	g.nodes[label] = n
	g.order = append(g.order, n)
	return n
}

// UpsertEdge records from→to with weight. An existing edge for the same
// ordered pair keeps its identity and takes the new weight.
func (g *Graph) UpsertEdge(from, to string, weight float64) *Edge {
	key := edgeKey{from, to}
	if e, ok := g.edges[key]; ok {
		e.Weight = weight
		return e
	}
	f := g.UpsertNode(from)
	t := g.UpsertNode(to)
	e := &Edge{From: f, To: t, Weight: weight}
	g.edges[key] = e
	f.outgoing = append(f.outgoing, t)
	t.incoming = append(t.incoming, f)
	return e
}

// FindNode looks a node up by exact label.
func (g *Graph) FindNode(label string) (*Node, bool) {
	n, ok := g.nodes[label]
	return n, ok
}

// FindEdge returns the edge from→to, if any.
func (g *Graph) FindEdge(from, to *Node) (*Edge, bool) {
	e, ok := g.edges[edgeKey{from.label, to.label}]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Reset clears every node's distance and predecessor.
func (g *Graph) Reset() {
	for _, n := range g.order {
		n.reset()
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct ordered edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

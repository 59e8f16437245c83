package graph

import "math"

// Node is a labeled point on the map. MinDistance and Predecessor are scratch
// state owned by whichever relaxation run last touched the graph.
type Node struct {
	label    string
	outgoing []*Node
	incoming []*Node

	MinDistance float64
	Predecessor *Node
}

func newNode(label string) *Node {
	return &Node{label: label, MinDistance: math.Inf(1)}
}

func (n *Node) Label() string { return n.label }

// Outgoing returns the successors of n in insertion order.
func (n *Node) Outgoing() []*Node { return n.outgoing }

// Incoming returns the predecessors-by-edge of n in insertion order.
func (n *Node) Incoming() []*Node { return n.incoming }

// Reachable reports whether the last run assigned n a finite distance.
func (n *Node) Reachable() bool { return !math.IsInf(n.MinDistance, 1) }

func (n *Node) reset() {
	n.MinDistance = math.Inf(1)
	n.Predecessor = nil
}

// -----------------------------------------------------------------------
// Edge
// -----------------------------------------------------------------------

// Edge is a directed weighted connection. At most one exists per ordered pair.
type Edge struct {
	From   *Node
	To     *Node
	Weight float64
}

type edgeKey struct {
	from, to string
}

// Package dijkstra runs single-source shortest-path searches over a graph.Graph
// with a pluggable edge weight.
//
// The search writes its answer into the graph's nodes: after Run returns nil,
// every node reachable from the source has a finite MinDistance and a
// Predecessor chain back to the source. Weights must be non-negative.
package dijkstra

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/navigation/internal/graph"
)

var (
	// ErrEmptyGraph is returned when the graph has no nodes.
	ErrEmptyGraph = errors.New("dijkstra: graph has no nodes")

	// ErrSourceNotFound is returned when the source label is unknown.
	ErrSourceNotFound = errors.New("dijkstra: source node not found")

	// ErrStructural means a node lists a successor with no matching edge.
	// The run is aborted; node state is not a valid answer.
	ErrStructural = errors.New("dijkstra: adjacency without edge")
)

// Graph is the view of a graph.Graph that a search needs.
type Graph interface {
	NodeCount() int
	FindNode(label string) (*graph.Node, bool)
	FindEdge(from, to *graph.Node) (*graph.Edge, bool)
	Reset()
}

// WeightFunc returns the cost of traversing e, which leaves from.
type WeightFunc func(e *graph.Edge, from *graph.Node) float64

// Distance weighs an edge by its stored weight.
func Distance(e *graph.Edge, _ *graph.Node) float64 {
	return e.Weight
}

// TimeWithWaiting weighs an edge by its stored weight plus the waiting time
// of the node it departs from.
func TimeWithWaiting(waits graph.WaitingTimes) WeightFunc {
	return func(e *graph.Edge, from *graph.Node) float64 {
		return e.Weight + float64(waits.Minutes(from.Label()))
	}
}

// Run computes shortest paths from source over g using weight.
// The caller must hold g's lock if g is shared.
func Run(g Graph, source string, weight WeightFunc) error {
	if g.NodeCount() == 0 {
		return ErrEmptyGraph
	}
	src, ok := g.FindNode(source)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSourceNotFound, source)
	}

	g.Reset()
	src.MinDistance = 0

	pq := newQueue(g.NodeCount())
	pq.push(src)

	for pq.Len() > 0 {
		u := heap.Pop(pq).(*item).node
		for _, v := range u.Outgoing() {
			e, ok := g.FindEdge(u, v)
			if !ok {
				return fmt.Errorf("%w: %s -> %s", ErrStructural, u.Label(), v.Label())
			}
			candidate := u.MinDistance + weight(e, u)
			if candidate >= v.MinDistance {
				continue
			}
			v.MinDistance = candidate
			v.Predecessor = u
			pq.push(v)
		}
	}
	return nil
}

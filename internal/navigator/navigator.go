// Package navigator answers shortest-distance and fastest-time queries between
// labeled points on a map.
//
// A Navigator keeps two graphs built from the same declarations: one weighted
// by length in km, one by travel time in minutes. Each graph admits a single
// query at a time; the two can be queried in parallel.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gyaneshwarpardhi/navigation/internal/dijkstra"
	"github.com/gyaneshwarpardhi/navigation/internal/graph"
	"github.com/gyaneshwarpardhi/navigation/internal/mapfile"
	"github.com/gyaneshwarpardhi/navigation/internal/route"
)

// Result codes below zero. Any other result is a distance in km or a time in
// minutes.
const (
	SourceNotFound            = -1
	DestinationNotFound       = -2
	SourceDestinationNotFound = -3
	NoPath                    = -4
)

// Kind selects which graph a query runs on.
type Kind string

const (
	KindDistance Kind = "distance"
	KindTime     Kind = "time"
)

// Valid reports whether k names a known query kind.
func (k Kind) Valid() bool {
	return k == KindDistance || k == KindTime
}

// Result is the outcome of a route query. Value is either the cost or one of
// the negative codes; Stops is empty unless a route was found.
type Result struct {
	Value int          `json:"result"`
	Stops []route.Stop `json:"stops,omitempty"`
}

// Labels returns the route's node labels, nil when there is no route.
func (r Result) Labels() []string {
	if len(r.Stops) == 0 {
		return nil
	}
	return route.Route{Stops: r.Stops}.Labels()
}

// Found reports whether Value is a real cost rather than a code.
func (r Result) Found() bool { return r.Value >= 0 }

// Stats summarizes the loaded map.
type Stats struct {
	DistanceNodes int `json:"distance_nodes"`
	DistanceEdges int `json:"distance_edges"`
	TimeNodes     int `json:"time_nodes"`
	TimeEdges     int `json:"time_edges"`
	WaitingNodes  int `json:"waiting_nodes"`
}

// Navigator owns the distance graph, the time graph and the waiting table.
type Navigator struct {
	distance *graph.Graph
	time     *graph.Graph
	waits    graph.WaitingTimes
	logger   *slog.Logger
}

// New builds both graphs from decls. A nil logger uses slog.Default().
func New(decls mapfile.Declarations, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Navigator{
		distance: graph.New(),
		time:     graph.New(),
		waits:    make(graph.WaitingTimes, len(decls.Nodes)),
		logger:   logger,
	}
	for _, e := range decls.Edges {
		n.distance.UpsertEdge(e.From, e.To, e.Length)
		n.time.UpsertEdge(e.From, e.To, e.Minutes())
	}
	for _, d := range decls.Nodes {
		n.waits.Set(d.Label, d.Waiting)
	}
	return n
}

// ShortestDistance returns the shortest distance from a to b in whole km,
// rounded up, or a negative code.
func (n *Navigator) ShortestDistance(a, b string) int {
	return n.value(KindDistance, a, b)
}

// FastestTime returns the fastest travel time from a to b in whole minutes,
// or a negative code. Waiting times of intermediate stops are included.
func (n *Navigator) FastestTime(a, b string) int {
	return n.value(KindTime, a, b)
}

// ShortestRoute is ShortestDistance plus the route itself.
func (n *Navigator) ShortestRoute(a, b string) (Result, error) {
	return n.Route(KindDistance, a, b)
}

// FastestRoute is FastestTime plus the route itself.
func (n *Navigator) FastestRoute(a, b string) (Result, error) {
	return n.Route(KindTime, a, b)
}

func (n *Navigator) value(kind Kind, a, b string) int {
	res, err := n.Route(kind, a, b)
	if err != nil {
		n.logger.Error("route search aborted", "kind", kind, "from", a, "to", b, "err", err)
		return NoPath
	}
	return res.Value
}

// Route runs one query. The error is non-nil only for internal faults such as
// an inconsistent graph; every user-facing outcome is carried in Result.Value.
func (n *Navigator) Route(kind Kind, a, b string) (Result, error) {
	var g *graph.Graph
	var weight dijkstra.WeightFunc
	switch kind {
	case KindDistance:
		g, weight = n.distance, dijkstra.Distance
	case KindTime:
		g, weight = n.time, dijkstra.TimeWithWaiting(n.waits)
	default:
		return Result{}, fmt.Errorf("navigator: unknown query kind %q", kind)
	}

	if a == b {
		return Result{Value: 0}, nil
	}

	g.Lock()
	defer g.Unlock()

	_, hasA := g.FindNode(a)
	target, hasB := g.FindNode(b)
	switch {
	case !hasA && !hasB:
		return Result{Value: SourceDestinationNotFound}, nil
	case !hasA:
		return Result{Value: SourceNotFound}, nil
	case !hasB:
		return Result{Value: DestinationNotFound}, nil
	}

	if err := dijkstra.Run(g, a, weight); err != nil {
		return Result{}, fmt.Errorf("navigator: %s search from %q: %w", kind, a, err)
	}
	r, err := route.Reconstruct(target)
	if errors.Is(err, route.ErrNoPath) {
		return Result{Value: NoPath}, nil
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Stops: r.Stops}
	if kind == KindTime {
		res.Value = route.Minutes(r, n.waits)
	} else {
		res.Value = r.Rounded()
	}
	return res, nil
}

// Waiting returns the waiting time recorded for label.
func (n *Navigator) Waiting(label string) int {
	return n.waits.Minutes(label)
}

// Stats reports graph sizes. It takes each graph's lock briefly.
func (n *Navigator) Stats() Stats {
	s := Stats{WaitingNodes: len(n.waits)}
	n.distance.Lock()
	s.DistanceNodes, s.DistanceEdges = n.distance.NodeCount(), n.distance.EdgeCount()
	n.distance.Unlock()
	n.time.Lock()
	s.TimeNodes, s.TimeEdges = n.time.NodeCount(), n.time.EdgeCount()
	n.time.Unlock()
	return s
}

// Package route turns the predecessor links left by a search into an ordered
// route with cumulative costs.
package route

import (
	"errors"
	"math"

	"github.com/gyaneshwarpardhi/navigation/internal/graph"
)

// ErrNoPath means the target was not reached by the last search.
var ErrNoPath = errors.New("route: no path found")

// Stop is one node on a route with the cost accumulated on arrival.
type Stop struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// Route is an ordered source→target sequence of stops.
type Route struct {
	Stops []Stop `json:"stops"`
}

// Reconstruct walks predecessor links back from target. It must run right
// after the search that populated them, under the same graph lock.
func Reconstruct(target *graph.Node) (Route, error) {
	if target == nil || !target.Reachable() {
		return Route{}, ErrNoPath
	}
	var stops []Stop
	for n := target; n != nil; n = n.Predecessor {
		stops = append(stops, Stop{Label: n.Label(), Cost: n.MinDistance})
	}
	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}
	return Route{Stops: stops}, nil
}

// Len returns the number of stops, source and target included.
func (r Route) Len() int { return len(r.Stops) }

// Labels returns the stop labels in travel order.
func (r Route) Labels() []string {
	out := make([]string, len(r.Stops))
	for i, s := range r.Stops {
		out[i] = s.Label
	}
	return out
}

// Total returns the raw cost at the target, 0 for an empty route.
func (r Route) Total() float64 {
	if len(r.Stops) == 0 {
		return 0
	}
	return r.Stops[len(r.Stops)-1].Cost
}

// Rounded returns Total rounded up to a whole unit.
func (r Route) Rounded() int {
	return int(math.Ceil(r.Total()))
}

// WaitingCorrection returns the minutes to subtract from a time-mode total.
//
// The search charges a node's waiting time when leaving it, so the source's
// penalty is always in the total and is removed here. On routes of more than
// two stops the destination's penalty is removed as well, even though it was
// never charged.
// TODO: confirm with map owners whether the destination deduction on routes
// longer than one hop should stay; it is kept to preserve published results,
// and Minutes clamps at zero where it would exceed the charged total.
func WaitingCorrection(r Route, waits graph.WaitingTimes) int {
	if len(r.Stops) == 0 {
		return 0
	}
	minutes := waits.Minutes(r.Stops[0].Label)
	if len(r.Stops) > 2 {
		minutes += waits.Minutes(r.Stops[len(r.Stops)-1].Label)
	}
	return minutes
}

// Minutes returns the time-mode result: the total rounded up, minus the
// waiting correction. A found route never yields less than zero, which keeps
// it out of the negative result codes.
func Minutes(r Route, waits graph.WaitingTimes) int {
	m := r.Rounded() - WaitingCorrection(r, waits)
	if m < 0 {
		return 0
	}
	return m
}

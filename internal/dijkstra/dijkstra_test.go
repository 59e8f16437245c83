package dijkstra_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/navigation/internal/dijkstra"
	"github.com/gyaneshwarpardhi/navigation/internal/graph"
)

func triangle() *graph.Graph {
	g := graph.New()
	g.UpsertEdge("A", "B", 10)
	g.UpsertEdge("B", "C", 5)
	g.UpsertEdge("A", "C", 20)
	return g
}

func dist(t *testing.T, g *graph.Graph, label string) float64 {
	t.Helper()
	n, ok := g.FindNode(label)
	require.True(t, ok, label)
	return n.MinDistance
}

func TestRun_EmptyGraph(t *testing.T) {
	err := dijkstra.Run(graph.New(), "A", dijkstra.Distance)
	assert.ErrorIs(t, err, dijkstra.ErrEmptyGraph)
}

func TestRun_SourceNotFound(t *testing.T) {
	err := dijkstra.Run(triangle(), "Z", dijkstra.Distance)
	assert.ErrorIs(t, err, dijkstra.ErrSourceNotFound)
}

func TestRun_Distance(t *testing.T) {
	g := triangle()
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.Distance))

	assert.Equal(t, 0.0, dist(t, g, "A"))
	assert.Equal(t, 10.0, dist(t, g, "B"))
	assert.Equal(t, 15.0, dist(t, g, "C"))

	c, _ := g.FindNode("C")
	require.NotNil(t, c.Predecessor)
	assert.Equal(t, "B", c.Predecessor.Label())
	assert.Equal(t, "A", c.Predecessor.Predecessor.Label())

	a, _ := g.FindNode("A")
	assert.Nil(t, a.Predecessor)
}

func TestRun_TimeChargesDepartureNode(t *testing.T) {
	g := triangle()
	waits := graph.WaitingTimes{"A": 7, "B": 3, "C": 100}
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.TimeWithWaiting(waits)))

	// A's penalty is charged on every edge leaving A; C's is never charged.
	assert.Equal(t, 17.0, dist(t, g, "B"))
	assert.Equal(t, 25.0, dist(t, g, "C"))
}

func TestRun_WaitingCanChangeRoute(t *testing.T) {
	g := triangle()
	waits := graph.WaitingTimes{"B": 6}
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.TimeWithWaiting(waits)))

	// Via B costs 21, direct costs 20.
	assert.Equal(t, 20.0, dist(t, g, "C"))
	c, _ := g.FindNode("C")
	assert.Equal(t, "A", c.Predecessor.Label())
}

func TestRun_Unreachable(t *testing.T) {
	g := triangle()
	g.UpsertEdge("Y", "Z", 1)
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.Distance))

	z, _ := g.FindNode("Z")
	assert.False(t, z.Reachable())
	assert.Nil(t, z.Predecessor)
}

func TestRun_ResetsBetweenRuns(t *testing.T) {
	g := triangle()
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.Distance))
	require.NoError(t, dijkstra.Run(g, "B", dijkstra.Distance))

	a, _ := g.FindNode("A")
	assert.False(t, a.Reachable(), "A is not reachable from B")
	assert.Equal(t, 5.0, dist(t, g, "C"))
}

func TestRun_Cycle(t *testing.T) {
	g := graph.New()
	g.UpsertEdge("A", "B", 1)
	g.UpsertEdge("B", "A", 1)
	g.UpsertEdge("B", "C", 2)
	g.UpsertEdge("C", "A", 1)
	require.NoError(t, dijkstra.Run(g, "A", dijkstra.Distance))

	assert.Equal(t, 3.0, dist(t, g, "C"))
	assert.Equal(t, 0.0, dist(t, g, "A"))
}

// missingEdge hides one edge so adjacency and the edge table disagree.
type missingEdge struct {
	*graph.Graph
	from, to string
}

func (m missingEdge) FindEdge(from, to *graph.Node) (*graph.Edge, bool) {
	if from.Label() == m.from && to.Label() == m.to {
		return nil, false
	}
	return m.Graph.FindEdge(from, to)
}

func TestRun_StructuralFault(t *testing.T) {
	g := missingEdge{Graph: triangle(), from: "B", to: "C"}
	err := dijkstra.Run(g, "A", dijkstra.Distance)
	require.ErrorIs(t, err, dijkstra.ErrStructural)
	assert.Contains(t, err.Error(), "B -> C")
}

// bruteForce returns the cheapest simple-path cost from src to dst, or +Inf.
func bruteForce(g *graph.Graph, src, dst string) float64 {
	best := math.Inf(1)
	seen := map[string]bool{}
	var walk func(n *graph.Node, cost float64)
	walk = func(n *graph.Node, cost float64) {
		if n.Label() == dst {
			best = math.Min(best, cost)
			return
		}
		seen[n.Label()] = true
		for _, v := range n.Outgoing() {
			if seen[v.Label()] {
				continue
			}
			e, _ := g.FindEdge(n, v)
			walk(v, cost+e.Weight)
		}
		seen[n.Label()] = false
	}
	s, _ := g.FindNode(src)
	walk(s, 0)
	return best
}

func TestRun_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		g := graph.New()
		n := 2 + rng.Intn(6)
		for i := 0; i < n; i++ {
			g.UpsertNode(fmt.Sprintf("N%d", i))
		}
		for i := 0; i < n*2; i++ {
			from := fmt.Sprintf("N%d", rng.Intn(n))
			to := fmt.Sprintf("N%d", rng.Intn(n))
			if from == to {
				continue
			}
			g.UpsertEdge(from, to, float64(rng.Intn(20)))
		}

		require.NoError(t, dijkstra.Run(g, "N0", dijkstra.Distance))
		for _, node := range g.Nodes() {
			want := bruteForce(g, "N0", node.Label())
			assert.Equal(t, want, node.MinDistance, "round %d node %s", round, node.Label())
		}
	}
}

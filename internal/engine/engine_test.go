package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/navigation/internal/config"
	"github.com/gyaneshwarpardhi/navigation/internal/engine"
	"github.com/gyaneshwarpardhi/navigation/internal/mapfile"
	"github.com/gyaneshwarpardhi/navigation/internal/navigator"
	"github.com/gyaneshwarpardhi/navigation/internal/query"
)

const testMap = `digraph G {
A -> B [label="10,60"];
B -> C [label="5,60"];
A -> C [label="20,60"];
Y -> Z [label="1,60"];
B [label="B,3"];
}`

func snapshot(t *testing.T, src string) *engine.Snapshot {
	t.Helper()
	m, err := mapfile.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return engine.NewSnapshot("test.dot", m, nil)
}

func newEngine(t *testing.T, conf config.EngineConf) *engine.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e := engine.New(ctx, snapshot(t, testMap), conf)
	t.Cleanup(func() {
		cancel()
		e.Shutdown()
	})
	return e
}

var defaultConf = config.EngineConf{QueryWorkers: 2, QueueDepth: 16, QueryTimeoutMs: 2000}

func TestProcessSync_Distance(t *testing.T) {
	e := newEngine(t, defaultConf)

	res, err := e.ProcessSync(context.Background(), &query.Query{ID: "q1", Kind: navigator.KindDistance, From: "A", To: "C"})
	require.NoError(t, err)
	assert.Equal(t, "q1", res.QueryID)
	assert.Equal(t, 15, res.Result)
	assert.Equal(t, "ok", res.Outcome)
	assert.Equal(t, []string{"A", "B", "C"}, res.Route)
	assert.Nil(t, res.Map)
}

func TestProcessSync_TimeAnnotated(t *testing.T) {
	e := newEngine(t, defaultConf)

	res, err := e.ProcessSync(context.Background(), &query.Query{Kind: navigator.KindTime, From: "A", To: "C", Annotate: true})
	require.NoError(t, err)
	assert.Equal(t, 18, res.Result)
	require.Len(t, res.Map, 7)
	assert.Equal(t, `A -> B [label="10,60"][style = bold];`, res.Map[1])
	assert.Equal(t, `B -> C [label="5,60"][style = bold];`, res.Map[2])
	assert.Equal(t, `A -> C [label="20,60"];`, res.Map[3])
}

func TestProcessSync_Sentinels(t *testing.T) {
	e := newEngine(t, defaultConf)

	res, err := e.ProcessSync(context.Background(), &query.Query{Kind: navigator.KindDistance, From: "A", To: "Z", Annotate: true})
	require.NoError(t, err)
	assert.Equal(t, navigator.NoPath, res.Result)
	assert.Equal(t, "no_path", res.Outcome)
	assert.Empty(t, res.Route)
	assert.Equal(t, `A -> B [label="10,60"];`, res.Map[1], "no route leaves the map as is")

	res, err = e.ProcessSync(context.Background(), &query.Query{Kind: navigator.KindTime, From: "Q", To: "R"})
	require.NoError(t, err)
	assert.Equal(t, "source_destination_not_found", res.Outcome)
}

func TestProcessSync_UnknownKind(t *testing.T) {
	e := newEngine(t, defaultConf)
	_, err := e.ProcessSync(context.Background(), &query.Query{Kind: "walking", From: "A", To: "C"})
	assert.Error(t, err)
}

func TestProcessSync_QueueFullAndTimeout(t *testing.T) {
	// No workers: the first query sits in the queue until it times out and
	// the second finds the queue full.
	e := newEngine(t, config.EngineConf{QueryWorkers: 0, QueueDepth: 1, QueryTimeoutMs: 10})

	q := &query.Query{Kind: navigator.KindDistance, From: "A", To: "C"}
	_, err := e.ProcessSync(context.Background(), q)
	assert.ErrorIs(t, err, engine.ErrTimeout)
	assert.Equal(t, 1.0, e.QueueUtilization())

	_, err = e.ProcessSync(context.Background(), q)
	assert.ErrorIs(t, err, engine.ErrQueueFull)
}

func TestProcessSync_AfterShutdown(t *testing.T) {
	e := newEngine(t, defaultConf)
	e.Shutdown()

	_, err := e.ProcessSync(context.Background(), &query.Query{Kind: navigator.KindDistance, From: "A", To: "C"})
	assert.ErrorIs(t, err, engine.ErrQueueFull)
}

func TestSwap(t *testing.T) {
	e := newEngine(t, defaultConf)
	e.Swap(snapshot(t, "digraph {\nA -> C [label=\"3,60\"];\n}"))

	res, err := e.ProcessSync(context.Background(), &query.Query{Kind: navigator.KindDistance, From: "A", To: "C"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Result)
	assert.Equal(t, 2, e.Snapshot().Nav.Stats().DistanceNodes)
}

func TestReload(t *testing.T) {
	e := newEngine(t, defaultConf)
	before := e.Snapshot()

	bad := &config.NavConfig{Version: "v1", LogLevel: "info", Map: config.MapConf{Path: "missing.dot"}, Engine: defaultConf}
	require.Error(t, e.Reload(bad, nil))
	assert.Same(t, before, e.Snapshot(), "failed reload keeps the old map")

	invalid := &config.NavConfig{Map: config.MapConf{Path: "../mapfile/testdata/sample.dot"}}
	require.Error(t, e.Reload(invalid, nil))
	assert.Same(t, before, e.Snapshot())

	good := &config.NavConfig{Version: "v1", LogLevel: "info", Map: config.MapConf{Path: "../mapfile/testdata/sample.dot"}, Engine: defaultConf}
	require.NoError(t, e.Reload(good, nil))
	assert.NotSame(t, before, e.Snapshot())
	assert.Equal(t, 5, e.Snapshot().Nav.Stats().WaitingNodes)
}

func TestLoad(t *testing.T) {
	cfg := &config.NavConfig{Map: config.MapConf{Path: "../mapfile/testdata/sample.dot"}}
	s, err := engine.Load(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Nav.Stats().DistanceEdges)
	assert.Equal(t, 150, s.Nav.ShortestDistance("Ulm", "Muenchen"))

	_, err = engine.Load(&config.NavConfig{Map: config.MapConf{Path: "nope.dot"}}, nil)
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", engine.Outcome(0))
	assert.Equal(t, "ok", engine.Outcome(42))
	assert.Equal(t, "source_not_found", engine.Outcome(navigator.SourceNotFound))
	assert.Equal(t, "destination_not_found", engine.Outcome(navigator.DestinationNotFound))
}

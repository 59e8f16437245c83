package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/navigation/internal/config"
	"github.com/gyaneshwarpardhi/navigation/internal/metrics"
	"github.com/gyaneshwarpardhi/navigation/internal/navigator"
	"github.com/gyaneshwarpardhi/navigation/internal/query"
	"github.com/gyaneshwarpardhi/navigation/internal/render"
	"github.com/gyaneshwarpardhi/navigation/internal/route"
)

var (
	// ErrQueueFull is returned when a query cannot be enqueued.
	ErrQueueFull = errors.New("query queue full")

	// ErrTimeout is returned when a query is not answered in time.
	ErrTimeout = errors.New("query timed out")
)

// QueryResult is the outcome of processing a single query.
type QueryResult struct {
	QueryID    string         `json:"query_id"`
	Kind       navigator.Kind `json:"kind"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Result     int            `json:"result"`
	Outcome    string         `json:"outcome"`
	Route      []string       `json:"route,omitempty"`
	Stops      []route.Stop   `json:"stops,omitempty"`
	Map        []string       `json:"map,omitempty"`
	DurationMs float64        `json:"duration_ms"`
}

// Outcome names a result value for responses and metric labels.
func Outcome(v int) string {
	switch v {
	case navigator.SourceNotFound:
		return "source_not_found"
	case navigator.DestinationNotFound:
		return "destination_not_found"
	case navigator.SourceDestinationNotFound:
		return "source_destination_not_found"
	case navigator.NoPath:
		return "no_path"
	}
	return "ok"
}

// Engine answers queries on a worker pool against the current snapshot.
type Engine struct {
	snap atomic.Pointer[Snapshot]
	pool *workerPool[*queryWork]
	conf config.EngineConf
}

type outcome struct {
	res *QueryResult
	err error
}

type queryWork struct {
	q       *query.Query
	resultC chan outcome
}

// New creates an Engine using conf and starts its worker pool.
func New(ctx context.Context, s *Snapshot, conf config.EngineConf) *Engine {
	e := &Engine{conf: conf}
	e.Swap(s)
	e.pool = newWorkerPool[*queryWork](
		ctx,
		conf.QueryWorkers,
		conf.QueueDepth,
		func(ctx context.Context, w *queryWork) {
			res, err := e.process(w.q)
			w.resultC <- outcome{res: res, err: err}
		},
	)
	return e
}

// Swap atomically replaces the snapshot (used on hot-reload). Queries
// already running finish on the old one.
func (e *Engine) Swap(s *Snapshot) {
	e.snap.Store(s)
	stats := s.Nav.Stats()
	metrics.GraphNodes.WithLabelValues(string(navigator.KindDistance)).Set(float64(stats.DistanceNodes))
	metrics.GraphEdges.WithLabelValues(string(navigator.KindDistance)).Set(float64(stats.DistanceEdges))
	metrics.GraphNodes.WithLabelValues(string(navigator.KindTime)).Set(float64(stats.TimeNodes))
	metrics.GraphEdges.WithLabelValues(string(navigator.KindTime)).Set(float64(stats.TimeEdges))
}

// Reload validates cfg, rebuilds the snapshot from its map file and swaps it
// in. On failure the current snapshot stays in place.
func (e *Engine) Reload(cfg *config.NavConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := config.Validate(cfg); err != nil {
		metrics.MapReloads.WithLabelValues("invalid").Inc()
		return err
	}
	s, err := Load(cfg, logger)
	if err != nil {
		metrics.MapReloads.WithLabelValues("failed").Inc()
		return err
	}
	e.Swap(s)
	metrics.MapReloads.WithLabelValues("ok").Inc()
	stats := s.Nav.Stats()
	logger.Info("map reloaded", "path", s.Path, "nodes", stats.DistanceNodes, "edges", stats.DistanceEdges)
	return nil
}

// Snapshot returns the snapshot new queries run against.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// ProcessSync runs q on the pool and waits for the result.
// It returns ErrQueueFull, ErrTimeout, the context's error, or an internal
// search fault; sentinel route outcomes are not errors.
func (e *Engine) ProcessSync(ctx context.Context, q *query.Query) (*QueryResult, error) {
	resultC := make(chan outcome, 1)
	if !e.pool.Submit(&queryWork{q: q, resultC: resultC}) {
		metrics.QueriesDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}
	metrics.QueriesEnqueued.Inc()

	timeout := time.Duration(e.conf.QueryTimeoutMs) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-resultC:
		return o.res, o.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

func (e *Engine) process(q *query.Query) (*QueryResult, error) {
	start := time.Now()
	s := e.snap.Load()

	res, err := s.Nav.Route(q.Kind, q.From, q.To)
	if err != nil {
		metrics.QueriesProcessed.WithLabelValues(string(q.Kind), "error").Inc()
		return nil, err
	}

	out := &QueryResult{
		QueryID: q.ID,
		Kind:    q.Kind,
		From:    q.From,
		To:      q.To,
		Result:  res.Value,
		Outcome: Outcome(res.Value),
		Route:   res.Labels(),
		Stops:   res.Stops,
	}
	if q.Annotate {
		out.Map = render.Bold(s.Map, out.Route)
	}

	elapsed := time.Since(start)
	out.DurationMs = float64(elapsed.Microseconds()) / 1000
	metrics.QueriesProcessed.WithLabelValues(string(q.Kind), out.Outcome).Inc()
	metrics.QueryDuration.WithLabelValues(string(q.Kind)).Observe(out.DurationMs)
	return out, nil
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

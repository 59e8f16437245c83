package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/navigation/internal/config"
	"github.com/gyaneshwarpardhi/navigation/internal/engine"
	"github.com/gyaneshwarpardhi/navigation/internal/metrics"
	"github.com/gyaneshwarpardhi/navigation/internal/navigator"
	"github.com/gyaneshwarpardhi/navigation/internal/query"
)

const maxBatchSize = 100

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng       *engine.Engine
	loader    *config.Loader
	mux       *http.ServeMux
	validator *requestValidator
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{
		eng:       eng,
		loader:    loader,
		mux:       http.NewServeMux(),
		validator: newRequestValidator(),
	}

	h.mux.HandleFunc("GET /v1/distance", h.queryParams(navigator.KindDistance))
	h.mux.HandleFunc("GET /v1/time", h.queryParams(navigator.KindTime))
	h.mux.HandleFunc("POST /v1/routes", h.route)
	h.mux.HandleFunc("POST /v1/queries/batch", h.batch)
	h.mux.HandleFunc("GET /v1/map", h.mapInfo)
	h.mux.HandleFunc("POST /v1/map/reload", h.reloadMap)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /v1/distance and GET /v1/time: a single query from URL parameters.
func (h *Handler) queryParams(kind navigator.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := &query.Query{
			Kind: kind,
			From: r.URL.Query().Get("from"),
			To:   r.URL.Query().Get("to"),
		}
		h.serveQuery(w, r, q)
	}
}

// POST /v1/routes: a single query from a JSON body.
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	var q query.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	h.serveQuery(w, r, &q)
}

func (h *Handler) serveQuery(w http.ResponseWriter, r *http.Request, q *query.Query) {
	if msgs := h.validator.check(q); len(msgs) > 0 {
		writeValidation(w, msgs)
		return
	}
	stamp(q, time.Now())

	res, err := h.eng.ProcessSync(r.Context(), q)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// batchItem is one entry of a batch response: a result or an error.
type batchItem struct {
	Index  int                 `json:"index"`
	Status int                 `json:"status"`
	Result *engine.QueryResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// POST /v1/queries/batch: up to maxBatchSize queries answered concurrently.
// Each item carries its own status; the batch itself succeeds if it parsed.
func (h *Handler) batch(w http.ResponseWriter, r *http.Request) {
	var queries []*query.Query
	if err := json.NewDecoder(r.Body).Decode(&queries); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(queries) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one query")
		return
	}
	if len(queries) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(queries), maxBatchSize))
		return
	}

	now := time.Now()
	items := make([]batchItem, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		items[i].Index = i
		if q == nil {
			items[i].Status = http.StatusBadRequest
			items[i].Error = "query is null"
			continue
		}
		if msgs := h.validator.check(q); len(msgs) > 0 {
			items[i].Status = http.StatusBadRequest
			items[i].Error = joinMessages(msgs)
			continue
		}
		stamp(q, now)

		wg.Add(1)
		go func(it *batchItem, q *query.Query) {
			defer wg.Done()
			res, err := h.eng.ProcessSync(r.Context(), q)
			if err != nil {
				it.Status = statusFor(err)
				it.Error = err.Error()
				return
			}
			it.Status = http.StatusOK
			it.Result = res
		}(&items[i], q)
	}
	wg.Wait()

	ok := 0
	for _, it := range items {
		if it.Status == http.StatusOK {
			ok++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":    uuid.New().String(),
		"total":     len(items),
		"succeeded": ok,
		"failed":    len(items) - ok,
		"results":   items,
	})
}

// GET /v1/map: what is loaded right now.
func (h *Handler) mapInfo(w http.ResponseWriter, r *http.Request) {
	s := h.eng.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":   h.loader.Config().Version,
		"path":      s.Path,
		"loaded_at": s.LoadedAt,
		"stats":     s.Nav.Stats(),
	})
}

// POST /v1/map/reload: re-read config and map from disk and swap the navigator.
func (h *Handler) reloadMap(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if cfg == nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s := h.eng.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"path":     s.Path,
		"stats":    s.Nav.Stats(),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the query queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func stamp(q *query.Query, now time.Time) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	q.ReceivedAt = now
}

// statusFor maps an engine error to an HTTP status. Route outcomes such as
// "no path" are not errors and never reach here.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

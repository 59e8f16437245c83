package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "navigation_queries_enqueued_total",
		Help: "Total number of queries placed on the processing queue.",
	})

	QueriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "navigation_queries_dropped_total",
		Help: "Total number of queries rejected due to a full queue.",
	})

	QueriesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_queries_total",
		Help: "Total number of queries answered, labelled by kind and outcome code.",
	}, []string{"kind", "outcome"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "navigation_query_duration_ms",
		Help:    "Route search latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"kind"})

	GraphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "navigation_graph_nodes",
		Help: "Number of nodes in the loaded graph, labelled by graph.",
	}, []string{"graph"})

	GraphEdges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "navigation_graph_edges",
		Help: "Number of edges in the loaded graph, labelled by graph.",
	}, []string{"graph"})

	MapReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navigation_map_reloads_total",
		Help: "Total number of map rebuilds, labelled by status.",
	}, []string{"status"})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "navigation_queue_utilization_ratio",
		Help: "Current query queue utilization (0–1).",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignalsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neurosync_signals_received_total",
			Help: "Total number of signals accepted on the TCP ingest port",
		},
	)

	IngestConnections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neurosync_ingest_connections_total",
			Help: "Total number of accepted ingestion connections",
		},
	)

	ObserversConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "neurosync_ws_observers",
			Help: "Number of currently connected WebSocket observers",
		},
	)

	BroadcastsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neurosync_broadcasts_dropped_total",
			Help: "Signals recorded but not fanned out because the queue was full",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neurosync_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neurosync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

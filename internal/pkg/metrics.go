package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OutboxEventsTotal result: sent / failed / dropped
	OutboxEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_total",
			Help: "Outbox events handled by the relayer",
		},
		[]string{"result"},
	)

	LikeReconcileFixedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "like_reconcile_fixed_total",
			Help: "Posts whose like_count was corrected by the reconciler",
		},
	)
)

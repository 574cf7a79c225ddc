package client

import (
	"github.com/Sternrassler/helium-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for ledger API requests.
var (
	ledgerRequestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_requests_total",
		Help: "Total ledger API requests by method and status",
	}, []string{"method", "status"})

	ledgerRequestDuration = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_request_duration_seconds",
		Help:    "Ledger API request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	ledgerErrorsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_errors_total",
		Help: "Total ledger API errors by class",
	}, []string{"class"})

	ledgerRetriesTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})
)

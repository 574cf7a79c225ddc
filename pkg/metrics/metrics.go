// Package metrics exposes the ledger client's Prometheus metrics.
//
// Collectors are declared next to the code that updates them and registered
// through promauto.With(Registry):
//
// Requests (pkg/client):
//   - ledger_requests_total{method, status} (Counter)
//   - ledger_request_duration_seconds{method} (Histogram)
//   - ledger_errors_total{class} (Counter): client, server, rate_limit, network
//   - ledger_retries_total{error_class} (Counter)
//
// Rate limiting (pkg/ratelimit):
//   - ledger_rate_limit_blocks_total (Counter): calls refused during a cool-down
//   - ledger_rate_limit_cooldowns_total (Counter): 429 responses recorded
//
// Example queries:
//
//	# Error rate by class
//	sum by (class) (rate(ledger_errors_total[5m]))
//
//	# P95 latency of list calls
//	histogram_quantile(0.95, rate(ledger_request_duration_seconds_bucket{method="GET"}[5m]))
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Prefix is shared by every metric this module registers.
const Prefix = "ledger_"

// Registry receives the ledger collectors when their packages initialize.
// Replacing it later has no effect on collectors already registered.
var Registry prometheus.Registerer = prometheus.DefaultRegisterer

// Gatherer reads back what Registry holds.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// Handler serves Gatherer in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

func newRouter() http.Handler {
	router := chi.NewRouter()
	router.Get("/metrics", Handler().ServeHTTP)
	return router
}

// Serve exposes Handler at /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// LedgerFamilies returns the sorted names of gathered families carrying Prefix.
func LedgerFamilies() ([]string, error) {
	families, err := Gatherer.Gather()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), Prefix) {
			names = append(names, mf.GetName())
		}
	}
	sort.Strings(names)
	return names, nil
}

package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_attempts_total",
		Help: "Fetch attempts by result (success, transport, http_status, panic)",
	}, []string{"result"})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_persist_failures_total",
		Help: "Attempts whose artifact could not be written",
	})

	InFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_attempts_in_flight",
		Help: "Attempts currently waiting on the network",
	})

	AttemptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_attempt_duration_seconds",
		Help:    "Duration of single fetch attempts",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	})

	LastSuccessRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_last_success_rate_percent",
		Help: "Success rate of the most recent dispatch",
	})
)

// StartMetricsServer serves /metrics on port in the background. A port of
// zero disables it.
func StartMetricsServer(port int) *http.Server {
	if port <= 0 {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + strconv.Itoa(port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Int("port", port).Msg("metrics server stopped")
		}
	}()
	return srv
}

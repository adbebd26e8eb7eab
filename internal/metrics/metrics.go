// Package metrics exposes Prometheus counters for the booking service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bronidom",
			Name:      "claims_total",
			Help:      "Count of claim attempts by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bronidom",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)

	seedRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bronidom",
			Name:      "seed_runs_total",
			Help:      "Count of seed operations.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(claims, httpRequests, seedRuns)
	})
}

func IncClaim(outcome string) {
	claims.WithLabelValues(outcome).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncSeedRun() {
	seedRuns.Inc()
}

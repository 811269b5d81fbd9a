package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run counters, scraped by CI when a metrics address is configured. They are
// incremented outside the timed span so they never bias a measurement.
var (
	SamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celero_samples_total",
		Help: "Timed samples executed across all benchmarks.",
	})

	BenchmarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celero_benchmarks_total",
		Help: "Benchmarks completed, by result status.",
	}, []string{"status"})
)

// StartMetricsServer exposes /metrics on addr. It blocks, so callers run it
// in a goroutine alongside the benchmark run.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

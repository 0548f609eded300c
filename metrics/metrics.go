// Package metrics exposes Prometheus collectors for generations,
// query executions and tool calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinoai_generations_total",
			Help: "SQL generations by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinoai_generation_duration_seconds",
			Help:    "Backend generation latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinoai_queries_total",
			Help: "Trino statement executions by outcome.",
		},
		[]string{"outcome"},
	)

	queryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trinoai_query_duration_seconds",
			Help:    "Trino statement execution latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinoai_tool_calls_total",
			Help: "Tool server calls by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)
)

func init() {
	registry.MustRegister(
		generationsTotal,
		generationDuration,
		queriesTotal,
		queryDuration,
		toolCallsTotal,
	)
}

// Registry returns the collector registry used by Handler.
func Registry() *prometheus.Registry { return registry }

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one generation attempt. Configuration
// failures are counted but carry no latency sample.
func ObserveGeneration(provider, outcome string, elapsed time.Duration) {
	generationsTotal.WithLabelValues(provider, outcome).Inc()
	if elapsed > 0 {
		generationDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// ObserveQuery records one statement execution.
func ObserveQuery(outcome string, elapsed time.Duration) {
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDuration.Observe(elapsed.Seconds())
}

// ObserveToolCall records one tool server invocation.
func ObserveToolCall(tool, outcome string) {
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

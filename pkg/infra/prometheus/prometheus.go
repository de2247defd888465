package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Pattern-only verdicts land in the
	// first bands; hybrid verdicts carry the provider round trip.
	latencyBuckets = []float64{
		1, 2, 5, // pattern-only (1-5ms)
		10, 25, 50, // cache and scoring overhead (10-50ms)
		100, 250, 500, // provider round trips (100-500ms)
		1000, 2500, 5000, 10000, // slow providers and timeouts (1s-10s)
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	ClassifyLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scamshield_classify_latency_ms",
			Help:    "Classification latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method"}, // method is "pattern_only" or "hybrid"
	)

	CacheEvents = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_cache_events_total",
			Help: "Verdict cache lookups by tier and outcome",
		},
		[]string{"tier", "event"},
	)

	GateDecisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_gate_decisions_total",
			Help: "Contextual gate decisions",
		},
		[]string{"decision"}, // "invoked", "skipped" or "disabled"
	)

	ContextualCalls = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_contextual_calls_total",
			Help: "Contextual provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	Verdicts = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scamshield_verdicts_total",
			Help: "Classification verdicts by severity band",
		},
		[]string{"severity"},
	)
)

type MetricsConfig struct {
	EnableLatency bool // Latency histograms (the only high-volume series)
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

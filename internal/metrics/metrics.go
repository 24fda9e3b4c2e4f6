// Package metrics holds the prometheus collectors for the estimator.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estimator"

// Prediction outcomes used as the "outcome" label
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeUnavailable    = "unavailable"
	OutcomeSchemaMismatch = "schema_mismatch"
	OutcomeError          = "error"
)

// Metrics groups the collectors registered on a dedicated registry
type Metrics struct {
	registry        *prometheus.Registry
	predictions     *prometheus.CounterVec
	unknownCategory *prometheus.CounterVec
	duration        prometheus.Histogram
	artifactLoaded  *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry, together with the Go and process collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: registry,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		unknownCategory: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_category_total",
			Help:      "Categorical values missing from the vocabulary and encoded as the fallback code.",
		}, []string{"field"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent validating, encoding and scoring a request.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		artifactLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_loaded",
			Help:      "1 when the artifact loaded at startup, 0 otherwise.",
		}, []string{"artifact"}),
	}

	registry.MustRegister(m.predictions, m.unknownCategory, m.duration, m.artifactLoaded)
	return m
}

// Handler returns the exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction records one request outcome and its duration in seconds
func (m *Metrics) ObservePrediction(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

// UnknownCategory records a vocabulary miss for a categorical field
func (m *Metrics) UnknownCategory(field string) {
	if m == nil {
		return
	}
	m.unknownCategory.WithLabelValues(field).Inc()
}

// SetArtifactLoaded publishes whether an artifact ("model", "vocabulary") is available
func (m *Metrics) SetArtifactLoaded(artifact string, loaded bool) {
	if m == nil {
		return
	}
	value := 0.0
	if loaded {
		value = 1
	}
	m.artifactLoaded.WithLabelValues(artifact).Set(value)
}

// PredictionCount returns the counter for an outcome (used by tests)
func (m *Metrics) PredictionCount(outcome string) prometheus.Counter {
	return m.predictions.WithLabelValues(outcome)
}

// UnknownCategoryCount returns the counter for a field (used by tests)
func (m *Metrics) UnknownCategoryCount(field string) prometheus.Counter {
	return m.unknownCategory.WithLabelValues(field)
}

// Package metrics exposes runtime and evaluation metrics: memory snapshots,
// throughput indicators, and a Prometheus registry served over HTTP.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// Evaluation status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
	StatusMismatch = "mismatch"
)

// Metrics owns a private Prometheus registry with the evaluation counters,
// the memory collector and the Go runtime collectors. A private registry
// keeps several instances (one per test) from colliding.
type Metrics struct {
	registry      *prometheus.Registry
	evaluations   *prometheus.CounterVec
	duration      prometheus.Histogram
	active        prometheus.Gauge
	requestsTotal prometheus.Counter
	handler       http.Handler
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigcalc_evaluations_total",
			Help: "Evaluated expressions by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bigcalc_evaluation_duration_seconds",
			Help:    "Wall time of a single expression evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bigcalc_active_evaluations",
			Help: "Evaluations currently running.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigcalc_http_requests_total",
			Help: "Requests served by the metrics endpoint.",
		}),
	}
	m.registry.MustRegister(
		m.evaluations, m.duration, m.active, m.requestsTotal,
		NewMemoryCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// EvaluationStarted increments the active evaluations gauge.
func (m *Metrics) EvaluationStarted() {
	m.active.Inc()
}

// EvaluationFinished records the outcome and duration of one evaluation.
func (m *Metrics) EvaluationFinished(d time.Duration, err error) {
	m.active.Dec()
	m.duration.Observe(d.Seconds())
	m.evaluations.WithLabelValues(StatusOf(err)).Inc()
}

// StatusOf classifies an evaluation error into a status label.
func StatusOf(err error) string {
	var mismatch apperrors.MismatchError
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.As(err, &mismatch):
		return StatusMismatch
	default:
		return StatusError
	}
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

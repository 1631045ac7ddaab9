package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/storybook/internal/model"
)

// Metrics holds the API's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	stories     prometheus.Counter
	diagnostics *prometheus.CounterVec
	generations *prometheus.CounterVec
	documents   *prometheus.CounterVec
}

// NewMetrics registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storybook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storybook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		stories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storybook",
			Name:      "parsed_stories_total",
			Help:      "Stories successfully parsed.",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storybook",
			Name:      "parse_diagnostics_total",
			Help:      "Parse and validation diagnostics by severity.",
		}, []string{"severity"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storybook",
			Name:      "generations_total",
			Help:      "Generation requests by type and outcome.",
		}, []string{"type", "outcome"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storybook",
			Name:      "document_operations_total",
			Help:      "Document store operations by kind.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		m.requests, m.duration, m.stories, m.diagnostics, m.generations, m.documents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReport counts stories and diagnostics from one parse
func (m *Metrics) ObserveReport(r *model.Report) {
	m.stories.Add(float64(r.Summary.Stories))
	m.diagnostics.WithLabelValues(string(model.SeverityError)).Add(float64(r.Summary.Errors))
	m.diagnostics.WithLabelValues(string(model.SeverityWarning)).Add(float64(r.Summary.Warnings))
}

// ObserveGeneration counts one generation outcome
func (m *Metrics) ObserveGeneration(genType, outcome string) {
	m.generations.WithLabelValues(genType, outcome).Inc()
}

// ObserveDocument counts one store operation
func (m *Metrics) ObserveDocument(op string) {
	m.documents.WithLabelValues(op).Inc()
}

// statusRecorder captures the response code for instrumentation
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request count and latency
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

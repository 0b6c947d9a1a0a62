package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	grpcprom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/application/worker"
)

const namespace = "statistics"

// Metrics owns every collector exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	sourceCalls    *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec

	recordsStored prometheus.Counter
	batchesFailed prometheus.Counter

	GRPC *grpcprom.ServerMetrics
}

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP request processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Series served from the fetch cache.",
		}, []string{"source"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Series computed because the fetch cache had no entry.",
		}, []string{"source"}),
		sourceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_calls_total",
			Help:      "Per-bucket aggregation calls against a record source.",
		}, []string{"source", "result"}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_call_duration_seconds",
			Help:      "Duration of per-bucket aggregation calls.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"source"}),
		recordsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_stored_total",
			Help:      "Records persisted by the ingestion worker pool.",
		}),
		batchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_failed_total",
			Help:      "Record batches the worker pool failed to persist.",
		}),
		GRPC: grpcprom.NewServerMetrics(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.sourceCalls,
		m.sourceDuration,
		m.recordsStored,
		m.batchesFailed,
		m.GRPC,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) CacheHit(source string) {
	m.cacheHits.WithLabelValues(source).Inc()
}

func (m *Metrics) CacheMiss(source string) {
	m.cacheMisses.WithLabelValues(source).Inc()
}

func (m *Metrics) SourceCall(source string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sourceCalls.WithLabelValues(source, result).Inc()
	m.sourceDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) BatchStored(records int) {
	m.recordsStored.Add(float64(records))
}

func (m *Metrics) BatchFailed() {
	m.batchesFailed.Inc()
}

// HTTPMiddleware counts requests by the matched chi route pattern.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if pattern := rc.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var (
	_ aggregator.Recorder = (*Metrics)(nil)
	_ worker.Observer     = (*Metrics)(nil)
)

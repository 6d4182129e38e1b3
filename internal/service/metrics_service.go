package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/lesson-planner-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the planner.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	snapshotSave    prometheus.Observer
	records         *prometheus.GaugeVec
}

// NewMetricsService registers the planner collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups partitioned by result",
	}, []string{"result"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_mutations_total",
		Help: "Planner mutation batches partitioned by operation and outcome",
	}, []string{"operation", "outcome"})

	snapshotSave := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_snapshot_save_seconds",
		Help:    "Latency of full-state snapshot writes",
		Buckets: prometheus.DefBuckets,
	})

	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_records",
		Help: "Number of records held per collection",
	}, []string{"kind"})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups, mutations, snapshotSave, records)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		mutations:       mutations,
		snapshotSave:    snapshotSave,
		records:         records,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordMutation counts a mutation batch by outcome (committed, rejected, persistence_failed).
func (m *MetricsService) RecordMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

// ObserveSnapshotSave tracks the duration of a snapshot write.
func (m *MetricsService) ObserveSnapshotSave(duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotSave.Observe(duration.Seconds())
}

// SetRecordCounts publishes the current collection sizes.
func (m *MetricsService) SetRecordCounts(counts models.Counts) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(models.KindClass)).Set(float64(counts.Classes))
	m.records.WithLabelValues(string(models.KindPeriod)).Set(float64(counts.Periods))
	m.records.WithLabelValues(string(models.KindLesson)).Set(float64(counts.Lessons))
}

// Package metrics provides Prometheus metrics for the post composer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postcraft"

// Metrics holds every collector, registered on its own registry so that several
// application instances can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Draft store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	DraftsTotal            prometheus.Gauge
	SearchResultsTotal     prometheus.Counter

	// Composer metrics
	SessionsActive     prometheus.Gauge
	MessagesTotal      prometheus.Counter
	RepliesTotal       *prometheus.CounterVec
	GenerationDuration prometheus.Histogram

	// Connection metrics
	Connected      prometheus.Gauge
	PublishesTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{Registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	m.StoreOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of draft store operations",
		},
		[]string{"operation", "status"},
	)

	m.StoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of draft store operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.DraftsTotal = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drafts_total",
			Help:      "Number of drafts currently stored",
		},
	)

	m.SearchResultsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_results_total",
			Help:      "Total number of drafts yielded by searches",
		},
	)

	m.SessionsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composer_sessions_active",
			Help:      "Number of live composer sessions",
		},
	)

	m.MessagesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "composer_messages_total",
			Help:      "Total number of user messages submitted to the composer",
		},
	)

	m.RepliesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "composer_replies_total",
			Help:      "Total number of deferred assistant replies by outcome",
		},
		[]string{"outcome"},
	)

	m.GenerationDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "composer_generation_duration_seconds",
			Help:      "Duration of post generation in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.Connected = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_connected",
			Help:      "1 when the account connection is established",
		},
	)

	m.PublishesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Total number of publish attempts",
		},
		[]string{"status"},
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordStoreOperation records a draft store operation
func (m *Metrics) RecordStoreOperation(operation string, err error, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(operation, status(err)).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordReply(outcome string, duration time.Duration) {
	m.RepliesTotal.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordPublish(err error) {
	m.PublishesTotal.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.Connected.Set(1)
		return
	}
	m.Connected.Set(0)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

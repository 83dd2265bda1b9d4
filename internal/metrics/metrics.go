// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingest results.
const (
	IngestRecorded = "recorded"
	IngestRejected = "rejected"
	IngestFailed   = "failed"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	maintenanceAlerts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "maintenance_alerts",
			Help: "Maintenance alerts in the most recently computed feed, by severity.",
		},
		[]string{"severity"},
	)
	ingestMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_ingest_messages_total",
			Help: "MQTT usage readings received, by result.",
		},
		[]string{"result"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Repeated calls are
// no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpLatency, maintenanceAlerts, ingestMessages)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, code).Inc()
	httpLatency.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// SetAlertCounts publishes the size of the latest alert feed.
func SetAlertCounts(overdue, dueSoon int) {
	AlertGauge("overdue").Set(float64(overdue))
	AlertGauge("due_soon").Set(float64(dueSoon))
}

// AlertGauge returns the alert gauge for one severity.
func AlertGauge(severity string) prometheus.Gauge {
	return maintenanceAlerts.WithLabelValues(severity)
}

// IncIngest counts one ingest message by result.
func IncIngest(result string) {
	IngestCounter(result).Inc()
}

// IngestCounter returns the ingest counter for one result.
func IngestCounter(result string) prometheus.Counter {
	return ingestMessages.WithLabelValues(result)
}

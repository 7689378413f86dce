package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec

	notificationsPublished *prometheus.CounterVec
	sseClientsActive       prometheus.Gauge
	allocationRunsTotal    *prometheus.CounterVec
	allocationLatency      prometheus.Histogram
	reportCacheRequests    *prometheus.CounterVec
	announcementRequests   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dms_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dms_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		allocationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_allocation_runs_total",
			Help: "Total number of auto-allocation runs, by outcome.",
		}, []string{"outcome"})

		allocationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dms_allocation_duration_seconds",
			Help:    "Duration of auto-allocation runs.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		reportCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_report_cache_requests_total",
			Help: "Occupancy report requests, by cache outcome.",
		}, []string{"result"})

		announcementRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dms_announcement_requests_total",
			Help: "Active announcement listings, by cache outcome.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			notificationsPublished,
			sseClientsActive,
			allocationRunsTotal,
			allocationLatency,
			reportCacheRequests,
			announcementRequests,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// NotificationsPublishedTotal counts published notifications by type.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// SSEClientsActive tracks connected notification stream clients.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// AllocationRuns counts auto-allocation runs by outcome.
func AllocationRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return allocationRunsTotal
}

// AllocationDuration observes how long allocation runs take.
func AllocationDuration() prometheus.Histogram {
	RegisterMetrics()
	return allocationLatency
}

// ReportCacheRequests counts occupancy report requests by cache outcome.
func ReportCacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reportCacheRequests
}

// AnnouncementRequests counts announcement listings by cache outcome.
func AnnouncementRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return announcementRequests
}

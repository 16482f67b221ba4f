package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sheetFetches    *prometheus.HistogramVec
	sheetErrors     *prometheus.CounterVec
	applications    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
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

	sheetFetches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheet_fetch_duration_seconds",
		Help:    "Duration of upstream sheet fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"sheet"})

	sheetErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_fetch_errors_total",
		Help: "Total failed upstream sheet fetches",
	}, []string{"sheet"})

	applications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "applications_events_total",
		Help: "Application lifecycle events by kind",
	}, []string{"event"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sheetFetches, sheetErrors, applications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sheetFetches:    sheetFetches,
		sheetErrors:     sheetErrors,
		applications:    applications,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSheetFetch records an upstream sheet fetch.
func (m *MetricsService) ObserveSheetFetch(sheet string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.sheetFetches.WithLabelValues(sheet).Observe(duration.Seconds())
	if err != nil {
		m.sheetErrors.WithLabelValues(sheet).Inc()
	}
}

// CountApplicationEvent counts an application lifecycle event such as
// "submitted" or "cancelled".
func (m *MetricsService) CountApplicationEvent(event string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(event).Inc()
}

package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for inbound HTTP
// traffic and calls made to the upstream annotation store.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeTotal      *prometheus.CounterVec
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

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "annotation_store_request_duration_seconds",
		Help:    "Duration of upstream annotation store calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	storeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "annotation_store_requests_total",
		Help: "Total number of upstream annotation store calls",
	}, []string{"method", "status"})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, storeTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeDuration:   storeDuration,
		storeTotal:      storeTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one inbound request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveStoreCall records one upstream store call. A zero status means the
// store never answered.
func (s *MetricsService) ObserveStoreCall(method string, status int, duration time.Duration) {
	labels := []string{method, strconv.Itoa(status)}
	s.storeDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.storeTotal.WithLabelValues(labels...).Inc()
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	errors          *prometheus.CounterVec
	webhooks        *prometheus.CounterVec
	giftCodes       *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"path", "method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of failed HTTP requests by error code.",
		}, []string{"path", "method", "code"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paykeeper_webhooks_total",
			Help: "PayKeeper webhook deliveries by outcome.",
		}, []string{"outcome"}),
		giftCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gift_codes_issued_total",
			Help: "Gift codes issued by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.requestDuration,
		m.requests,
		m.errors,
		m.webhooks,
		m.giftCodes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(path, method, code).Observe(duration.Seconds())
	m.requests.WithLabelValues(path, method, code).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordWebhook counts a webhook outcome such as paid, pending, duplicate or rejected.
func (m *Metrics) RecordWebhook(outcome string) {
	if m == nil {
		return
	}
	m.webhooks.WithLabelValues(outcome).Inc()
}

// RecordGiftCode counts an issued or failed gift code.
func (m *Metrics) RecordGiftCode(ok bool) {
	if m == nil {
		return
	}
	result := "issued"
	if !ok {
		result = "failed"
	}
	m.giftCodes.WithLabelValues(result).Inc()
}

// TrackSubscribers exposes the live stream count as a gauge.
func (m *Metrics) TrackSubscribers(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "order_stream_subscribers",
		Help: "Open order event streams.",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

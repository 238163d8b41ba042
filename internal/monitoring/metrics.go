package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the alias service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AliasesCreated prometheus.Counter
	AliasesDeleted prometheus.Counter

	MailAccepted  prometheus.Counter
	MailForwarded prometheus.Counter
	MailRejected  prometheus.Counter
	ForwardErrors prometheus.Counter
}

// NewMetrics registers and returns the collectors. promauto registers
// with the default registry, so call this once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghstmail_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghstmail_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		AliasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_aliases_created_total",
			Help: "Total number of aliases created",
		}),
		AliasesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_aliases_deleted_total",
			Help: "Total number of aliases deleted",
		}),
		MailAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_mail_accepted_total",
			Help: "Inbound messages accepted for forwarding",
		}),
		MailForwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_mail_forwarded_total",
			Help: "Messages relayed to a forward target",
		}),
		MailRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_mail_rejected_total",
			Help: "Inbound messages rejected (unknown or inactive alias)",
		}),
		ForwardErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghstmail_forward_errors_total",
			Help: "Relay failures while forwarding mail",
		}),
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// HTTPHandler exposes the /metrics endpoint.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.Handler()
}

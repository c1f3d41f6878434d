// Package metrics объявляет метрики Prometheus магазина и функции для их записи.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pastoverde_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"plan", "source"},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_order_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to", "actor"},
	)

	PaymentsVerifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_payments_verified_total",
			Help: "Total number of server-side payment verifications",
		},
		[]string{"source", "result"},
	)

	GeocodingLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_geocoding_lookups_total",
			Help: "Total number of geocoding lookups",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pastoverde_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pastoverde_subscriptions_expired_total",
			Help: "Total number of subscriptions deactivated after end date",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOrderCreated(plan, source string) {
	OrdersCreatedTotal.WithLabelValues(plan, source).Inc()
}

func RecordTransition(from, to, actor string) {
	OrderTransitionsTotal.WithLabelValues(from, to, actor).Inc()
}

func RecordPayment(source, result string) {
	PaymentsVerifiedTotal.WithLabelValues(source, result).Inc()
}

func RecordGeocoding(result string) {
	GeocodingLookupsTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordSubscriptionsExpired(n int64) {
	SubscriptionsExpiredTotal.Add(float64(n))
}

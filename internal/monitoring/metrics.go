package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound API call metrics.
	OutboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_outbound_requests_total",
			Help: "Total number of outbound API requests",
		},
		[]string{"api", "method", "status_class"},
	)

	OutboundRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commerce_events_outbound_request_duration_seconds",
			Help:    "Outbound API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"api", "method", "status_class"},
	)

	OutboundRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_outbound_retries_total",
			Help: "Total number of outbound request retries",
		},
		[]string{"api"},
	)

	OutboundErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_outbound_errors_total",
			Help: "Total number of outbound request failures by kind",
		},
		[]string{"api", "error_kind"},
	)

	// Credential issuance metrics.
	TokenExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_token_exchanges_total",
			Help: "Total number of credential-exchange attempts",
		},
		[]string{"strategy", "status"},
	)

	TokenCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_token_cache_hits_total",
			Help: "Total number of token cache lookups by outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// Inbound HTTP metrics for the action host.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"method", "path", "status_class"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "commerce_events_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "path", "status_class"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commerce_events_http_in_flight",
			Help: "Number of inbound HTTP requests currently being served",
		},
	)

	RateLimitKeysGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "commerce_events_rate_limit_keys",
			Help: "Number of live per-caller rate limiter entries",
		},
	)

	// Webhook action metrics.
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_events_webhook_events_total",
			Help: "Total number of webhook events by disposition",
		},
		[]string{"event_type", "disposition"},
	)
)

// StatusClass converts a status code into a low-cardinality label ("2xx"...).
func StatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

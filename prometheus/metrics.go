package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_login_total",
			Help: "Total number of login attempts",
		},
	)

	SignupCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_signup_total",
			Help: "Total number of user signups",
		},
	)

	RegistrationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_registrations_total",
			Help: "Total number of ticket registration attempts by outcome",
		},
		[]string{"outcome"}, // "confirmed", "pending_payment", "rejected", "error"
	)

	PaymentIntentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_payment_intents_total",
			Help: "Total number of payment intents created",
		},
	)

	WebhookCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_payment_webhooks_total",
			Help: "Total number of payment webhook deliveries by event type",
		},
		[]string{"event_type"},
	)

	CheckInCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventhub_checkins_total",
			Help: "Total number of attendee check-ins",
		},
	)

	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "suspend", etc.
	)

	EventOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_event_operations_total",
			Help: "Total number of event catalog operations",
		},
		[]string{"operation"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "invalid_token", "user_inactive", "role_denied", etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventhub_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventhub_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveTenantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventhub_active_tenants",
			Help: "Number of currently active tenants",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventhub_info",
			Help: "Information about the eventhub service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(SignupCounter)
	prometheus.MustRegister(RegistrationCounter)
	prometheus.MustRegister(PaymentIntentCounter)
	prometheus.MustRegister(WebhookCounter)
	prometheus.MustRegister(CheckInCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(EventOperationCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTenantsGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordRegistration increments the registration counter for the given outcome
func RecordRegistration(outcome string) {
	RegistrationCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordWebhook increments the webhook counter for the given event type
func RecordWebhook(eventType string) {
	WebhookCounter.With(prometheus.Labels{"event_type": eventType}).Inc()
}

// RecordTenantOperation increments the tenant operation counter
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordEventOperation increments the event catalog operation counter
func RecordEventOperation(operation string) {
	EventOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			return err
		}
	}
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by RecordLogin
const (
	LoginSuccess         = "success"
	LoginNotFound        = "not_found"
	LoginInactive        = "inactive"
	LoginBadPassword     = "bad_password"
	LoginSessionConflict = "session_conflict"
	LoginError           = "error"
)

// Authentication results recorded by RecordAuthentication
const (
	AuthAuthenticated = "authenticated"
	AuthAnonymous     = "anonymous"
	AuthInvalidToken  = "invalid_token"
	AuthSuperseded    = "superseded"
)

// Admission decisions recorded by RecordAdmission
const (
	AdmissionAdmitted = "admitted"
	AdmissionRejected = "rejected"
	AdmissionBypassed = "bypassed"
	AdmissionDegraded = "degraded"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics
	LoginAttemptsTotal    *prometheus.CounterVec
	LogoutsTotal          prometheus.Counter
	AuthenticationsTotal  *prometheus.CounterVec
	AdmissionsTotal       *prometheus.CounterVec
	CredentialStoreErrors *prometheus.CounterVec

	// Geolocation metrics
	GeoLookupsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authcore_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		LogoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authcore_logouts_total",
				Help: "Completed logouts",
			},
		),
		AuthenticationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_authentications_total",
				Help: "Bearer token evaluations by result",
			},
			[]string{"result"},
		),
		AdmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_admissions_total",
				Help: "Rate admission decisions",
			},
			[]string{"decision"},
		),
		CredentialStoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_credential_store_errors_total",
				Help: "Credential store operations that degraded to a safe default",
			},
			[]string{"operation"},
		),
		GeoLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_geo_lookups_total",
				Help: "Geolocation lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.LogoutsTotal,
		m.AuthenticationsTotal,
		m.AdmissionsTotal,
		m.CredentialStoreErrors,
		m.GeoLookupsTotal,
	)

	return m
}

// RecordLogin counts a login attempt
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordLogout counts a completed logout
func (m *Metrics) RecordLogout() {
	if m == nil {
		return
	}
	m.LogoutsTotal.Inc()
}

// RecordAuthentication counts a bearer token evaluation
func (m *Metrics) RecordAuthentication(result string) {
	if m == nil {
		return
	}
	m.AuthenticationsTotal.WithLabelValues(result).Inc()
}

// RecordAdmission counts a rate admission decision
func (m *Metrics) RecordAdmission(decision string) {
	if m == nil {
		return
	}
	m.AdmissionsTotal.WithLabelValues(decision).Inc()
}

// RecordStoreError counts a degraded credential store operation
func (m *Metrics) RecordStoreError(operation string) {
	if m == nil {
		return
	}
	m.CredentialStoreErrors.WithLabelValues(operation).Inc()
}

// RecordGeoLookup counts a geolocation lookup
func (m *Metrics) RecordGeoLookup(result string) {
	if m == nil {
		return
	}
	m.GeoLookupsTotal.WithLabelValues(result).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Requests are labelled by their mux route template so ids never become labels.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// MetricsHandler serves the registry in Prometheus exposition format
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

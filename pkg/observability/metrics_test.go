package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_Registers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordLogin(LoginSuccess)
	m.RecordLogin(LoginBadPassword)
	m.RecordLogin(LoginBadPassword)
	m.RecordLogout()
	m.RecordAuthentication(AuthSuperseded)
	m.RecordAdmission(AdmissionRejected)
	m.RecordStoreError("get")
	m.RecordGeoLookup("hit")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(LoginSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(LoginBadPassword)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LogoutsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthenticationsTotal.WithLabelValues(AuthSuperseded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AdmissionsTotal.WithLabelValues(AdmissionRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CredentialStoreErrors.WithLabelValues("get")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLogin(LoginSuccess)
		m.RecordLogout()
		m.RecordAuthentication(AuthAnonymous)
		m.RecordAdmission(AdmissionAdmitted)
		m.RecordStoreError("set")
		m.RecordGeoLookup("miss")
	})
}

func TestHTTPMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/42", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "418")))
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordLogout()

	rec := httptest.NewRecorder()
	MetricsHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "authcore_logouts_total 1"))
}

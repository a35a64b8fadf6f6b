package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/contextkeys"
	"github.com/setara/authcore/pkg/httputil"
	"github.com/setara/authcore/pkg/observability"
	"github.com/setara/authcore/pkg/storage"
)

// RateLimitConfig defines the per-address admission limit
type RateLimitConfig struct {
	// Requests is the most requests admitted per address within Window
	Requests int64
	// Window is the counter expiry, reapplied on every request
	Window time.Duration
}

// DefaultRateLimitConfig returns 10 requests per second
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 10,
		Window:   time.Second,
	}
}

// AdmissionGate limits requests per client address with a counter in the
// credential store. Every request increments the counter and pushes its
// expiry out by Window, so a client that never pauses for a full window
// stays limited.
type AdmissionGate struct {
	store   storage.CredentialStore
	config  RateLimitConfig
	logger  *observability.Logger
	metrics *observability.Metrics
	audit   *auth.AuditLogger
}

// NewAdmissionGate creates a gate. Zero config fields take the defaults.
func NewAdmissionGate(store storage.CredentialStore, config RateLimitConfig, logger *observability.Logger, metrics *observability.Metrics) *AdmissionGate {
	defaults := DefaultRateLimitConfig()
	if config.Requests <= 0 {
		config.Requests = defaults.Requests
	}
	if config.Window < time.Second {
		config.Window = defaults.Window
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return &AdmissionGate{
		store:   store,
		config:  config,
		logger:  logger.WithField("component", "admission"),
		metrics: metrics,
		audit:   auth.NewAuditLogger(logger),
	}
}

// Admit counts one request from addr. It returns a RateLimited error once
// the count exceeds the limit. OPTIONS requests are admitted without being
// counted, and store failures admit the request.
func (g *AdmissionGate) Admit(ctx context.Context, addr, method string) error {
	if method == http.MethodOptions {
		g.metrics.RecordAdmission(observability.AdmissionBypassed)
		return nil
	}
	if addr == "" {
		addr = DefaultClientAddress
	}

	count, ok := g.store.IncrementAndExpire(ctx, storage.RateLimitKey(addr), g.config.Window)
	if !ok {
		g.metrics.RecordAdmission(observability.AdmissionDegraded)
		g.logger.WithField("client_ip", addr).Warn("rate limit store unavailable, admitting request")
		return nil
	}

	if count > g.config.Requests {
		g.metrics.RecordAdmission(observability.AdmissionRejected)
		return auth.RateLimited()
	}

	g.metrics.RecordAdmission(observability.AdmissionAdmitted)
	return nil
}

// Handler wraps an HTTP handler with admission control
func (g *AdmissionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		addr := contextkeys.GetClientAddress(ctx)
		if addr == "" {
			addr = ClientAddress(r)
			ctx = contextkeys.WithClientAddress(ctx, addr)
		}

		if err := g.Admit(ctx, addr, r.Method); err != nil {
			g.audit.Log(ctx, auth.AuditEvent{
				Action:    auth.ActionRateLimitExceeded,
				Status:    auth.AuditDenied,
				IPAddress: addr,
				UserAgent: r.UserAgent(),
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(g.config.Window.Seconds())))
			httputil.WriteAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

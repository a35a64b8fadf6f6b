package middleware

import (
	"context"
	"net/http"

	"github.com/setara/authcore/pkg/auth"
	"github.com/setara/authcore/pkg/contextkeys"
	"github.com/setara/authcore/pkg/httputil"
	"github.com/setara/authcore/pkg/observability"
)

// AuthMiddleware resolves the bearer token of every request to an identity.
// It never rejects; routes that need an identity are wrapped with Private.
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), identity)
		ctx = contextkeys.WithAccountID(ctx, identity.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the authenticated identity, or nil
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(contextkeys.IdentityKey).(*auth.Identity)
	return identity
}

// GetIdentity extracts the identity from a request
func GetIdentity(r *http.Request) *auth.Identity {
	return IdentityFromContext(r.Context())
}

// Private requires an authenticated identity and, when roles are given, one
// of those roles. Missing identity is a 401, a role mismatch a 403.
func Private(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r)
			if err := auth.Authorize(identity, roles...); err != nil {
				if identity != nil {
					auth.NewAuditLogger(observability.FromContext(r.Context())).Log(r.Context(), auth.AuditEvent{
						Action:    auth.ActionAccessDenied,
						Status:    auth.AuditDenied,
						AccountID: identity.AccountID,
						UserAgent: r.UserAgent(),
						Reason:    r.Method + " " + r.URL.Path,
					})
				}
				httputil.WriteAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Public marks a route that accepts anonymous callers
func Public(next http.Handler) http.Handler {
	return next
}

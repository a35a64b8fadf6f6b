package auth

import (
	"context"
	"strings"
	"time"

	"github.com/setara/authcore/pkg/observability"
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticator turns a bearer token into an Identity when, and only when,
// the token verifies and is the live session token of its account.
type Authenticator struct {
	tokens   *TokenService
	sessions SessionStore
	ttl      time.Duration
	logger   *observability.Logger
	metrics  *observability.Metrics
	audit    *AuditLogger
}

// NewAuthenticator creates an authenticator that slides sessions by ttl on every match
func NewAuthenticator(tokens *TokenService, sessions SessionStore, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Authenticator {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Authenticator{
		tokens:   tokens,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger.WithField("component", "authenticator"),
		metrics:  metrics,
		audit:    NewAuditLogger(logger),
	}
}

// Authenticate evaluates an Authorization header value. It never returns an
// error: every failure means "no identity" and the caller continues anonymously.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*Identity, bool) {
	token, ok := BearerToken(authorization)
	if !ok {
		a.metrics.RecordAuthentication(observability.AuthAnonymous)
		return nil, false
	}

	identity, err := a.tokens.VerifyToken(token)
	if err != nil {
		a.metrics.RecordAuthentication(observability.AuthInvalidToken)
		a.logger.WithError(err).Debug("Bearer token failed verification")
		return nil, false
	}

	if !a.sessions.IsLive(ctx, identity.AccountID, token) {
		a.metrics.RecordAuthentication(observability.AuthSuperseded)
		a.audit.Log(ctx, AuditEvent{
			Action:    ActionTokenRejected,
			Status:    AuditDenied,
			AccountID: identity.AccountID,
			Reason:    "token is not the live session",
		})
		return nil, false
	}

	// Lookup and refresh are separate round trips. A logout landing between
	// them leaves no key, so the refresh is a no-op.
	a.sessions.Refresh(ctx, identity.AccountID, token, a.ttl)

	a.metrics.RecordAuthentication(observability.AuthAuthenticated)
	return identity, true
}

// Authorize checks a private route's requirements. A nil identity is
// Unauthorized; an identity outside a non-empty roles set is Forbidden.
func Authorize(identity *Identity, roles ...string) error {
	if identity == nil {
		return Unauthorized(MsgMissingToken)
	}
	if len(roles) > 0 && !identity.HasRole(roles...) {
		return Forbidden("")
	}
	return nil
}

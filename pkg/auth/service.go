package auth

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/setara/authcore/pkg/observability"
)

// ServiceDeps wires a Service
type ServiceDeps struct {
	Accounts AccountStore
	Sessions SessionStore
	Tokens   *TokenService
	Hasher   *PasswordHasher
	Geo      GeoLocator
	TTL      time.Duration
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// Service orchestrates login and logout
type Service struct {
	accounts AccountStore
	sessions SessionStore
	tokens   *TokenService
	hasher   *PasswordHasher
	geo      GeoLocator
	ttl      time.Duration
	logger   *observability.Logger
	metrics  *observability.Metrics
	audit    *AuditLogger
	tracer   trace.Tracer
}

// NewService creates a login/logout orchestrator
func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	geo := deps.Geo
	if geo == nil {
		geo = NoopGeoLocator{}
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = NewPasswordHasher(DefaultBcryptCost)
	}
	return &Service{
		accounts: deps.Accounts,
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		hasher:   hasher,
		geo:      geo,
		ttl:      deps.TTL,
		logger:   logger.WithField("component", "auth_service"),
		metrics:  deps.Metrics,
		audit:    NewAuditLogger(logger),
		tracer:   observability.Tracer(),
	}
}

// Login authenticates credentials and opens the account's only session.
//
// The live-session check and the session write are not atomic: two
// concurrent logins for one account can both pass the check, and the later
// write wins.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Login",
		trace.WithAttributes(attribute.String("auth.login_method", string(req.Method))))
	defer span.End()

	logger := observability.WithTraceContext(ctx, observability.FromContext(ctx)).
		WithField("login_method", string(req.Method))

	fail := func(outcome string, accountID string, err *Error) (*LoginResult, error) {
		s.metrics.RecordLogin(outcome)
		s.audit.Log(ctx, AuditEvent{
			Action:    ActionLogin,
			Status:    AuditFailure,
			AccountID: accountID,
			UserAgent: req.UserAgent,
			Reason:    outcome,
		})
		span.SetAttributes(attribute.String("auth.outcome", outcome))
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	account, err := s.accounts.FindByIdentifier(ctx, req.Method, req.Identifier, LoginStatuses)
	if err != nil {
		logger.WithError(err).Error("Account lookup failed")
		span.RecordError(err)
		s.metrics.RecordLogin(observability.LoginError)
		return nil, Internal(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return fail(observability.LoginNotFound, "", NotFound(MsgAccountNotFound))
	}
	span.SetAttributes(attribute.String("auth.account_id", account.ID))

	if account.Status == StatusInactive {
		return fail(observability.LoginInactive, account.ID, Unauthorized(MsgAccountInactive))
	}

	if !s.hasher.CheckPassword(req.Password, account.PasswordHash) {
		return fail(observability.LoginBadPassword, account.ID, Unauthorized(MsgWrongPassword))
	}

	if s.sessions.HasSession(ctx, account.ID) {
		return fail(observability.LoginSessionConflict, account.ID, Unauthorized(MsgActiveSession))
	}

	client := ClientInfo{
		Location: s.geo.Lookup(ctx, req.RealIP),
		Device:   req.UserAgent,
	}

	token, err := s.tokens.IssueToken(account, client)
	if err != nil {
		logger.WithError(err).Error("Token signing failed")
		span.RecordError(err)
		s.metrics.RecordLogin(observability.LoginError)
		return nil, Internal(err)
	}

	if !s.sessions.CacheNotificationToken(ctx, account.ID, req.NotificationToken, s.ttl) {
		logger.WithField("account_id", account.ID).Warn("Notification token was not cached")
	}
	if !s.sessions.Start(ctx, account.ID, token, s.ttl) {
		logger.WithField("account_id", account.ID).Warn("Session token was not stored; the issued token will not authenticate")
	}

	if _, err := s.accounts.UpdateFields(ctx, account, map[string]interface{}{FieldLoginFlag: true}); err != nil {
		logger.WithError(err).WithField("account_id", account.ID).Error("Failed to persist login flag")
	}

	s.metrics.RecordLogin(observability.LoginSuccess)
	s.audit.Log(ctx, AuditEvent{
		Action:    ActionLogin,
		Status:    AuditSuccess,
		AccountID: account.ID,
		UserAgent: req.UserAgent,
	})
	span.SetAttributes(attribute.String("auth.outcome", observability.LoginSuccess))
	logger.WithField("account_id", account.ID).Info("Login succeeded")

	return &LoginResult{Token: token, Role: account.Role}, nil
}

// Logout ends the identity's session and clears the login flag. It succeeds
// whether or not a session is still stored.
func (s *Service) Logout(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return Unauthorized(MsgMissingToken)
	}

	ctx, span := s.tracer.Start(ctx, "auth.Logout",
		trace.WithAttributes(attribute.String("auth.account_id", identity.AccountID)))
	defer span.End()

	logger := observability.WithTraceContext(ctx, observability.FromContext(ctx)).
		WithField("account_id", identity.AccountID)

	removed := s.sessions.End(ctx, identity.AccountID)

	account, err := s.accounts.FindByIdentifier(ctx, IdentifierID, identity.AccountID, AllStatuses)
	if err != nil {
		logger.WithError(err).Error("Account lookup failed during logout")
		span.RecordError(err)
	} else if _, err := s.accounts.UpdateFields(ctx, account, map[string]interface{}{FieldLoginFlag: false}); err != nil {
		logger.WithError(err).Error("Failed to clear login flag")
		span.RecordError(err)
	}

	s.metrics.RecordLogout()
	s.audit.Log(ctx, AuditEvent{
		Action:    ActionLogout,
		Status:    AuditSuccess,
		AccountID: identity.AccountID,
	})
	logger.WithField("keys_removed", removed).Info("Logout succeeded")

	return nil
}

// HashPassword exposes the service's hasher for account seeding
func (s *Service) HashPassword(plain string) (string, error) {
	return s.hasher.HashPassword(plain)
}

// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//
//	import "github.com/setara/authcore/pkg/contextkeys"
//	ctx = contextkeys.WithIdentity(ctx, identity)
//	identity, _ := ctx.Value(contextkeys.IdentityKey).(*auth.Identity)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// IdentityKey contains *auth.Identity
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go), only when the
	// presented bearer token is the live session token of its account
	// Required by: middleware.Private, logout handler
	// Type: *auth.Identity
	IdentityKey Key = "identity"

	// AccountIDKey contains the authenticated account id
	// Set by: middleware.AuthMiddleware
	// Used by: Logger (account_id field)
	// Type: string
	AccountIDKey Key = "account_id"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, error responses
	// Type: string
	RequestIDKey Key = "request_id"

	// ClientAddressKey contains the resolved client address
	// Set by: middleware.ClientAddressMiddleware, middleware.AdmissionGate
	// Used by: Logger, audit log, login handler (geolocation fallback)
	// Type: string
	ClientAddressKey Key = "client_address"

	// LoggerKey contains *observability.Logger
	// Set by: httputil.RequestIDMiddleware
	// Used by: Handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"

	// LoginFormKey contains the validated login form
	// Set by: api.AuthHandlers form validation stage
	// Used by: login handler
	// Type: *validation.LoginForm
	LoginFormKey Key = "login_form"
)

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, identity interface{}) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// WithAccountID adds the authenticated account id to the context
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithClientAddress adds the resolved client address to the context
func WithClientAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, ClientAddressKey, addr)
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithLoginForm adds a validated login form to the context
func WithLoginForm(ctx context.Context, form interface{}) context.Context {
	return context.WithValue(ctx, LoginFormKey, form)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetAccountID retrieves the authenticated account id from context
func GetAccountID(ctx context.Context) string {
	if accountID, ok := ctx.Value(AccountIDKey).(string); ok {
		return accountID
	}
	return ""
}

// GetClientAddress retrieves the resolved client address from context
func GetClientAddress(ctx context.Context) string {
	if addr, ok := ctx.Value(ClientAddressKey).(string); ok {
		return addr
	}
	return ""
}

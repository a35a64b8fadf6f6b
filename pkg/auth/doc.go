// Package auth implements session token issuance, bearer authentication and
// the login/logout flow.
//
// # Overview
//
// A session token is an HMAC-signed JWT carrying the account's claims plus
// the caller's city, coordinates and device string. Tokens never expire on
// their own. An account has at most one live token, kept by a SessionStore
// under auth_token:{account_id}; a token that verifies but is not the stored
// value is rejected.
//
// # Key Components
//
// TokenService signs and verifies tokens (HS256, HS384 or HS512):
//
//	tokens, err := auth.NewTokenService(secret, "HS256")
//	token, err := tokens.IssueToken(account, auth.ClientInfo{Device: ua})
//
// PasswordHasher wraps bcrypt with a clamped cost factor.
//
// Authenticator maps an Authorization header to an Identity and slides the
// session TTL on every match. It never fails; a bad or superseded token just
// yields no identity:
//
//	identity, ok := authn.Authenticate(ctx, r.Header.Get("Authorization"))
//
// Authorize applies a private route's role requirement to that identity.
//
// Service runs login and logout:
//
//	result, err := svc.Login(ctx, auth.LoginRequest{Method: auth.IdentifierPhone, ...})
//	err = svc.Logout(ctx, identity)
//
// # Errors
//
// Business failures are *Error values with a Kind (NotFound, Unauthorized,
// Forbidden, RateLimited, Invalid) and an end-user message. Use KindOf or
// errors.Is against ErrUnauthorized and friends. Store and crypto failures
// are never surfaced in messages.
//
// # Related Packages
//
//   - pkg/session: SessionStore implementation
//   - pkg/storage/postgres: AccountStore implementation
//   - pkg/geo: GeoLocator implementation
//   - pkg/middleware: HTTP stages built on Authenticator and Authorize
package auth

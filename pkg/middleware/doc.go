// Package middleware provides the admission and authentication stages of the
// HTTP pipeline.
//
// # Pipeline
//
// Stages run in a fixed order: rate admission, authentication, form
// validation (in the handler), route authorization, handler.
//
//	gate := middleware.NewAdmissionGate(store, middleware.RateLimitConfig{Requests: 10, Window: time.Second}, logger, metrics)
//	authn := middleware.NewAuthMiddleware(authenticator)
//
//	router.Use(gate.Handler, authn.Handler)
//	router.Handle("/auth/logout", middleware.Private()(logoutHandler))
//	router.Handle("/reports", middleware.Private("kepala_gudang")(reportsHandler))
//
// # Rate Limiting
//
// AdmissionGate keeps one counter per client address under rate_limit:{addr}.
// Each request increments it and resets its expiry, and a count above the
// limit is answered with 429 "Rate limit exceeded". When the store is
// unreachable the request is admitted. OPTIONS requests skip the gate.
//
// The client address is the first X-Forwarded-For entry, then X-Real-IP,
// then the socket peer.
//
// # Authentication
//
// AuthMiddleware attaches an *auth.Identity to the context when the bearer
// token is the live session token of its account. It never rejects on its
// own; Private turns a missing identity into 401 and a role mismatch into 403.
//
// # Related Packages
//
//   - pkg/auth: Token verification, session matching, role checks
//   - pkg/httputil: Response envelope
package middleware

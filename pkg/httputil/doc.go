// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Envelope
//
// Every response body carries an "error" flag and a "message":
//
//	httputil.WriteMessage(w, http.StatusOK, "Logout berhasil")
//	// {"error": false, "message": "Logout berhasil"}
//
//	httputil.WriteErrorMessage(w, http.StatusUnauthorized, "missing/invalid token")
//	// {"error": true, "message": "missing/invalid token"}
//
// Errors from pkg/auth are mapped by kind:
//
//	if err := svc.Logout(ctx, identity); err != nil {
//		httputil.WriteAuthError(w, err) // 404, 401, 403, 429, 400, 503 or 500
//		return
//	}
//
// # Request Parsing
//
// Form endpoints accept multipart/form-data and urlencoded bodies; anything
// else, or an empty form, is answered with 415. Bodies cut off by
// MaxBytesMiddleware are answered with 413:
//
//	values, ok := httputil.ParseFormOrError(w, r, 10<<20)
//	if !ok {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.RecoveryMiddleware,
//		httputil.CORSMiddleware([]string{"*"}),
//	)
//
// # Related Packages
//
//   - pkg/middleware: Admission and authentication stages
package httputil

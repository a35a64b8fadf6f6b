package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/setara/authcore/pkg/contextkeys"
)

// DefaultClientAddress is used when no address can be derived from the request
const DefaultClientAddress = "127.0.0.1"

// ClientAddress resolves the caller's address: the first X-Forwarded-For
// entry, then X-Real-IP, then the socket peer host
func ClientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return DefaultClientAddress
}

// ClientAddressMiddleware stores the resolved client address in the context
func ClientAddressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contextkeys.GetClientAddress(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := contextkeys.WithClientAddress(r.Context(), ClientAddress(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// username value, so no other package can shadow or spoof it.
type contextKey string

const usernameKey contextKey = "username"

// RequireAuth enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header, verifies it, and
// stores the bound username in the request context. A missing header is 401;
// a token that fails verification (tampered or expired alike) is 403 with
// the fixed "Invalid token" message.
//
// The token travels in a header rather than a cookie because the clients of
// this API (the CLI and the browser SPA) hold the token themselves and
// attach it explicitly per request.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, `{"message":"Missing token"}`, http.StatusUnauthorized)
				return
			}

			username, err := tokens.Verify(raw)
			if err != nil {
				http.Error(w, `{"message":"Invalid token"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext retrieves the authenticated username from the request
// context. Returns ("", false) on an anonymous request.
//
// Usage in handlers:
//
//	username, ok := auth.UsernameFromContext(r.Context())
//	if !ok {
//	    // unreachable behind RequireAuth, but be safe
//	}
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok && name != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not in bearer form.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

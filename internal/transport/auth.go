package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// ValidToken reports whether got matches the configured token.
func ValidToken(want, got string) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// AuthMiddleware enforces bearer token authentication against a single
// configured token. An empty token disables the check. Paths listed in
// public are always let through.
func AuthMiddleware(token string, public ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			got := BearerToken(r.Header.Get("Authorization"))
			if got == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if !ValidToken(token, got) {
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminKeyAuth guards the history endpoints with a single shared key.
// An empty configured key disables the check, which is the default for a
// purely local deployment.
func AdminKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			supplied := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if supplied == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

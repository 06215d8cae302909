package middleware

import (
	"net/http"

	"weddinglk-payments/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// InternalAuth guards service-to-service endpoints. Callers present the
// shared key in X-Service-Auth; only its bcrypt hash lives in config so
// a leaked environment dump does not leak the key itself.
func InternalAuth(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" {
				utils.WriteJSONError(w, "internal auth not configured", http.StatusServiceUnavailable)
				return
			}

			key := r.Header.Get("X-Service-Auth")
			if key == "" || bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

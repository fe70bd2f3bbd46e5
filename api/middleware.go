package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// UpdateSecretHeader carries the shared secret on pipeline trigger requests
const UpdateSecretHeader = "X-Update-Secret"

// SecretMiddleware guards the update-trigger routes with a shared secret
// known only to the external cron caller. Comparison is constant time over
// sha256 digests so header length leaks nothing.
func SecretMiddleware(secret string) func(http.Handler) http.Handler {
	expected := sha256.Sum256([]byte(secret))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if secret == "" {
				zap.S().Errorw("update secret not configured, refusing trigger", "url", r.URL)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error": "update trigger disabled"}`))
				return
			}
			got := sha256.Sum256([]byte(r.Header.Get(UpdateSecretHeader)))
			if subtle.ConstantTimeCompare(expected[:], got[:]) != 1 {
				zap.S().Warnw("unauthorized update trigger", "url", r.URL, "remote", r.RemoteAddr)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package v1

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// syncGuard wraps a sync trigger with the API key check and the per-IP
// rate limit.
func (s *Server) syncGuard(next http.HandlerFunc) http.Handler {
	var h http.Handler = s.requireAPIKey(next)
	if n := s.deps.SyncRequestsPerMinute; n > 0 {
		h = rateLimit(n, time.Minute)(h)
	}
	return h
}

// requireAPIKey rejects requests without the configured X-Api-Key. It is a
// no-op when no key is configured.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.APIKey == "" {
			next(w, r)
			return
		}
		key := r.Header.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.deps.APIKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
			return
		}
		next(w, r)
	}
}

func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many sync requests, try again later")
		}),
	)
}

package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/ratelimit"
)

// RateLimit rejects requests from keys that exhausted their window, before
// any handler logic runs. A denied call leaves no capture record and gets a
// deliberately generic message.
func RateLimit(limiter *ratelimit.Limiter, message string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !limiter.Allow(ip) {
				logger.Warn("rate limit exceeded",
					zap.String("ip", ip),
					zap.String("path", r.URL.Path),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

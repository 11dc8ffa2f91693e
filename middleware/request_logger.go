package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/securecorp/honeypot/ingest"
	"github.com/securecorp/honeypot/models"
)

// RequestLogger records every incoming request through the ingest pipeline.
// It runs before any route handler, so probes against unmapped paths are
// captured too. Health checks and static assets are skipped to keep the
// capture signal clean.
func RequestLogger(pipeline *ingest.Pipeline) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldLogRequest(r.URL.Path) {
				pipeline.RecordRequest(&models.RequestLogEntry{
					IPAddress: ClientIP(r),
					UserAgent: r.UserAgent(),
					Timestamp: time.Now().UTC(),
					Method:    r.Method,
					Path:      r.URL.Path,
					Referer:   r.Referer(),
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

func shouldLogRequest(path string) bool {
	if path == "/health" {
		return false
	}
	return !strings.HasPrefix(path, "/static/")
}

// ClientIP extracts the client IP address, checking proxy headers first.
func ClientIP(r *http.Request) string {
	// X-Forwarded-For may carry a chain; the first entry is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

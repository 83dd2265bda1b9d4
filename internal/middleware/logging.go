package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-maintenance/internal/metrics"
)

// RequestLogger logs every request and records its metrics under the route
// pattern it matched.
type RequestLogger struct {
	mux *http.ServeMux
}

// NewRequestLogger creates a request logger for routes registered on mux
func NewRequestLogger(mux *http.ServeMux) *RequestLogger {
	return &RequestLogger{mux: mux}
}

// Log wraps next with logging and metrics
func (l *RequestLogger) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := l.route(r)
		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, route, sw.status, duration)

		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			return
		}
		entry := log.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      sw.status,
			"duration_ms": duration.Milliseconds(),
			"client_ip":   getClientIP(r),
		})
		if sw.status >= http.StatusInternalServerError {
			entry.Error("HTTP request")
		} else {
			entry.Info("HTTP request")
		}
	})
}

func (l *RequestLogger) route(r *http.Request) string {
	if l.mux == nil {
		return "unmatched"
	}
	if _, pattern := l.mux.Handler(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

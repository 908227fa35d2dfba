package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// statusRecorder remembers the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger stores a request-scoped child of log in the request context, where
// handlers find it with zerolog.Ctx, and logs each request once it is done.
// The level follows the status: 5xx is an error, 4xx a warning.
//
// Run it inside RequestID so the id is attached to every line.
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLog := log.With().
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(reqLog.WithContext(r.Context())))

			var e *zerolog.Event
			switch {
			case rec.status >= 500:
				e = reqLog.Error()
			case rec.status >= 400:
				e = reqLog.Warn()
			default:
				e = reqLog.Info()
			}

			e.Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Str("query", r.URL.RawQuery).
				Str("remote_addr", r.RemoteAddr).
				Msg("API")
		})
	}
}

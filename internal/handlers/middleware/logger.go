package middleware

import (
	"context"
	"net/http"
	"time"
)

type accessLogger interface {
	Info(msg string, args ...any)
}

// Gate outcome noted by inner middlewares for the access log line
type accessRecord struct {
	decision string
	reason   string
	subject  string
}

type accessKey struct{}

// recordAccess is a no-op for requests not passed through LoggerMiddleware
func recordAccess(ctx context.Context, decision string, reason string, subject string) {
	if rec, ok := ctx.Value(accessKey{}).(*accessRecord); ok {
		rec.decision, rec.reason, rec.subject = decision, reason, subject
	}
}

type logWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *logWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *logWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *logWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggerMiddleware writes one access line per request.
// Line carries the gate decision, token failure reason and authenticated subject when known;
// the token itself is never logged.
func LoggerMiddleware(l accessLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &accessRecord{}
			lw := &logWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r.WithContext(context.WithValue(r.Context(), accessKey{}, rec)))

			args := []any{
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", lw.status,
				"size", lw.size,
				"duration", time.Since(start),
			}
			if rec.decision != "" {
				args = append(args, "auth", rec.decision)
			}
			if rec.reason != "" {
				args = append(args, "auth_reason", rec.reason)
			}
			if rec.subject != "" {
				args = append(args, "subject", rec.subject)
			}

			l.Info("got HTTP request", args...)
		})
	}
}

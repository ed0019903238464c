package middleware

import (
	"net/http"
)

// Stateless keeps the API free of server side sessions:
// incoming cookies are not visible to handlers and handlers can't set any
func Stateless(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "" {
			r = r.Clone(r.Context())
			r.Header.Del("Cookie")
		}

		nw := &noCookieWriter{ResponseWriter: w}
		next.ServeHTTP(nw, r)

		// Handler returned without writing: net/http sends the header map as is
		nw.dropCookies()
	})
}

type noCookieWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCookieWriter) dropCookies() {
	if !w.wroteHeader {
		w.ResponseWriter.Header().Del("Set-Cookie")
	}
}

func (w *noCookieWriter) WriteHeader(statusCode int) {
	w.dropCookies()
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *noCookieWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(p)
}

// FlushError is found by http.ResponseController before Unwrap, so flushing never skips the cookie check
func (w *noCookieWriter) FlushError() error {
	w.dropCookies()
	w.wroteHeader = true
	return http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *noCookieWriter) Flush() {
	_ = w.FlushError()
}

// Unwrap lets http.ResponseController reach deadlines and hijacking of the underlying writer
func (w *noCookieWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

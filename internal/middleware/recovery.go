package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/hongminglow/freelancer-be/internal/http/respond"
	"github.com/hongminglow/freelancer-be/internal/logging"
)

// Recovery turns a handler panic into a 500 response.
func Recovery(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error(r.Context(), "panic serving request", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				w.Header().Set("Connection", "close")
				respond.Error(w, http.StatusInternalServerError, "Something went wrong")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SecureHeaders sets conservative browser security headers.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

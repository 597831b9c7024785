package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader is the header callers may supply or will receive a
// generated value under.
const requestIDHeader = "X-Request-Id"

// RequestID assigns a UUID to every request that doesn't already carry
// one, and echoes it back in the response headers. Useful for
// correlating an embedder's command call with the fleet controller's
// own log lines.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

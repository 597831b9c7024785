package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
)

// Recovery creates a panic recovery middleware. A panicking handler is
// almost always mid-way through a single vehicle's request — arm,
// telemetry, a command — so the recovered log line carries {sysID} off
// the route, the same vehicle-scoped prefix the fleet controller's own
// per-session log lines use. The parameter is read from the request's
// chi route context, which only exists when Recovery runs inside the
// chi router; wrapped around the router from outside, as
// internal/server's buildHandler does, the line shows "-" instead.
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					sysID := chi.URLParamFromCtx(r.Context(), "sysID")
					if sysID == "" {
						sysID = "-"
					}
					logger.Printf("PANIC: sys %s: %v\n%s", sysID, err, debug.Stack())

					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

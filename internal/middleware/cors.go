package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS builds a CORS middleware with the given allowed origins, using
// go-chi/cors instead of a hand-rolled header writer.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           3600,
	})
}

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS opens the API to every origin, method and header. The backend only
// serves its own mobile/web client.
func CORS(allowCredentials bool) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: allowCredentials,
		MaxAge:           600,
	})
}

// Package server holds the middleware shared by the HTTP servers.
package server

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CorsHandler sets the cors settings on api endpoints
func CorsHandler(allowOrigins []string) *cors.Cors {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowCredentials: true,
		MaxAge:           600,
		AllowedHeaders:   []string{"*"},
	})
	return c
}

// AcceptHeaderHandler rejects requests whose Accept header admits none of
// the given media types.
func AcceptHeaderHandler(serverAcceptedTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept")
			if accept == "" || strings.Contains(accept, "*/*") {
				next.ServeHTTP(w, r)
				return
			}
			for _, t := range serverAcceptedTypes {
				if strings.Contains(accept, t) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Accepted media types: "+strings.Join(serverAcceptedTypes, ", "), http.StatusNotAcceptable)
		})
	}
}

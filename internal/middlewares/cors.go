package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

const (
	corsAllowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowedHeaders = "Content-Type, Authorization, X-Request-ID"
)

// CORSMiddleware creates a CORS middleware with the specified allowed origins
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowedOrigin := getAllowedOrigin(origin, allowedOrigins)

			if allowedOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				w.Header().Add("Vary", "Origin")
				// Browsers reject credentials together with the wildcard origin
				if allowedOrigin != "*" {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigin returns the origin if allowed, "*" if all origins are allowed, or empty string if not allowed
func getAllowedOrigin(requestOrigin string, allowedOrigins []string) string {
	if requestOrigin == "" {
		return ""
	}

	if slices.Contains(allowedOrigins, "*") {
		return "*"
	}

	for _, allowed := range allowedOrigins {
		if strings.EqualFold(requestOrigin, allowed) {
			return requestOrigin
		}
	}

	return ""
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/resourcehub/backend/internal/auth/service"
)

var (
	errNoToken      = errors.New("authentication required")
	errInvalidToken = errors.New("invalid or expired token")
)

// authenticate resolves the caller of r from its access token
func authenticate(tokenGenerator *service.TokenGenerator, r *http.Request) (string, int, error) {
	token := extractToken(r)
	if token == "" {
		return "", 0, errNoToken
	}

	userID, role, err := tokenGenerator.ValidateAccessToken(token)
	if err != nil {
		return "", 0, errInvalidToken
	}
	return userID, role, nil
}

// RoleMiddleware requires a valid access token whose role is at least requiredRole.
// Missing or invalid tokens get 401, a lower role gets 403.
func RoleMiddleware(tokenGenerator *service.TokenGenerator, requiredRole int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := authenticate(tokenGenerator, r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, `{"error":"`+err.Error()+`"}`)
				return
			}
			if role < requiredRole {
				writeError(w, http.StatusForbidden, `{"error":"insufficient permissions"}`)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, role)))
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/resourcehub/backend/internal/auth/service"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// extractToken reads the bearer token from the Authorization header, falling back to the access_token cookie
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func withIdentity(ctx context.Context, userID string, role int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// AuthMiddleware validates JWT access token and stores userID and role in the request context
func AuthMiddleware(tokenGenerator *service.TokenGenerator) func(http.Handler) http.Handler {
	return RoleMiddleware(tokenGenerator, 0)
}

// OptionalAuthMiddleware attaches the caller identity when a valid token is present
// and lets anonymous requests through untouched. An invalid token is treated as anonymous.
func OptionalAuthMiddleware(tokenGenerator *service.TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := authenticate(tokenGenerator, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, role)))
		})
	}
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetRole retrieves the user role from context
func GetRole(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(roleKey).(int)
	return role, ok
}

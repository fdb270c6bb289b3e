package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/auth/middleware"
	"github.com/resourcehub/backend/internal/auth/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUserID  = "user-1"
	testAdminID = "admin-1"
)

var testTokens = service.NewTokenGenerator("handler-secret", time.Hour, 24*time.Hour)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func newRouter(h routeRegistrar) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func authMw() func(http.Handler) http.Handler {
	return middleware.AuthMiddleware(testTokens)
}

func optionalAuthMw() func(http.Handler) http.Handler {
	return middleware.OptionalAuthMiddleware(testTokens)
}

func adminMw() func(http.Handler) http.Handler {
	return middleware.RoleMiddleware(testTokens, 2)
}

func bearer(t *testing.T, userID string, role int) string {
	t.Helper()
	access, _, err := testTokens.GenerateTokens(userID, role)
	require.NoError(t, err)
	return "Bearer " + access
}

func userBearer(t *testing.T) string {
	return bearer(t, testUserID, 1)
}

func adminBearer(t *testing.T) string {
	return bearer(t, testAdminID, 2)
}

func serve(router http.Handler, method, target string, body io.Reader, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

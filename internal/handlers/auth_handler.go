package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// AuthService is the interface that wraps methods for sign up, sign in and token refresh.
type AuthService interface {
	// Method Register creates a profile and signs the new user in.
	//
	// "req" parameter is validated; the email and the username must not be taken.
	//
	// If the request is invalid or a credential is taken, the error will be returned together with "nil" value.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error)
	// Method Login signs a user in with an email or a username.
	//
	// If the credentials do not match, an Unauthenticated error will be returned together with "nil" value.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	// Method Refresh issues a new token pair for a valid refresh token.
	//
	// Please reference Login method for more information about error values.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	BaseHandler
	authService   AuthService
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthHandler creates a new auth handler.
// The expiries set the cookie lifetimes and should match the token generator.
func NewAuthHandler(authService AuthService, logger *zap.Logger, accessExpiry, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		authService:   authService,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Create a contributor profile and return a token pair, also set as HTTP-only cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to register user")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondJSON(w, http.StatusCreated, tokens)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with an email or a username and a password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to login user")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondJSON(w, http.StatusOK, tokens)
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair. The token can be sent in the body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token (optional when the cookie is set)"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	var req RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		refreshToken = req.RefreshToken
	} else {
		cookie, err := r.Cookie(refreshTokenCookie)
		if err != nil || cookie.Value == "" {
			h.RespondError(w, http.StatusBadRequest, "refresh token required")
			return
		}
		refreshToken = cookie.Value
	}

	tokens, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.RespondServiceError(w, err, "failed to refresh tokens")
		return
	}

	h.setTokenCookies(w, tokens)
	h.RespondJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Clear the token cookies
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, tokenCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, tokenCookie(refreshTokenCookie, "", -1))
	w.WriteHeader(http.StatusNoContent)
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, tokens *models.TokenPair) {
	http.SetCookie(w, tokenCookie(accessTokenCookie, tokens.AccessToken, int(h.accessExpiry.Seconds())))
	http.SetCookie(w, tokenCookie(refreshTokenCookie, tokens.RefreshToken, int(h.refreshExpiry.Seconds())))
}

func tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

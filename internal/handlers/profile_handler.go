package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for the caller's own profile.
type ProfileService interface {
	// Method Get returns the profile of a user.
	//
	// If the profile does not exist, a NotFound error will be returned together with "nil" value.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Method Update applies the non nil fields of "req" to the profile of a user.
	//
	// If a field is invalid or the new username is taken, the error will be returned together with "nil" value.
	Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	// Method ChangePassword replaces the password of a user after checking the current one.
	//
	// "req" parameter carries the current password and the new one twice.
	//
	// If the passwords do not match, are too short or the current one is wrong, a Validation error will be returned.
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error
}

// ProfileHandler handles profile requests
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
	authMw         func(http.Handler) http.Handler
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger, authMw func(http.Handler) http.Handler) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
		authMw:         authMw,
	}
}

// RegisterRoutes registers all profile handler routes
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(h.authMw)
		r.Get("/", h.GetProfile)
		r.Put("/", h.UpdateProfile)
		r.Put("/password", h.ChangePassword)
	})
}

// GetProfile handles GET /profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /profile
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profileService.Update(r.Context(), caller.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// ChangePassword handles PUT /profile/password
// @Summary Change own password
// @Tags profile
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /profile/password [put]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.profileService.ChangePassword(r.Context(), caller.UserID, &req); err != nil {
		h.RespondServiceError(w, err, "failed to change password")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

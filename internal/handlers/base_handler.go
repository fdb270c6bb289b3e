package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/auth/middleware"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to its HTTP status and sends the caller-safe message.
// Unclassified errors are logged and answered with fallback.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, fallback string) {
	kind := apperrors.KindOf(err)
	status := StatusForKind(kind)

	switch kind {
	case apperrors.KindUnknown, apperrors.KindPersistence:
		h.Logger.Error(fallback, zap.Error(err))
	case apperrors.KindUploadFailed:
		h.Logger.Warn("upload failed", zap.Error(err))
	}

	h.RespondError(w, status, apperrors.Message(err, fallback))
}

// StatusForKind returns the HTTP status of an error kind
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into dst.
// An empty body, malformed JSON or an unknown field is answered with 400 and false is returned.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeStrict(r.Body, dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			h.RespondError(w, http.StatusBadRequest, "request body is required")
		default:
			h.RespondError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// decodeStrict decodes one JSON value, refusing fields dst does not declare
func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// identity returns the caller attached by the auth middlewares, or nil for anonymous requests
func identity(r *http.Request) *models.Identity {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}
	role, _ := middleware.GetRole(r.Context())
	return &models.Identity{UserID: userID, Role: models.Role(role)}
}

// requireIdentity returns the caller or answers 401 when the request is anonymous
func (h *BaseHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id := identity(r)
	if id == nil {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return models.Identity{}, false
	}
	return *id, true
}

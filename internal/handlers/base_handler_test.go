package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "validation", err: apperrors.Validation("Title is required."), expectedStatus: http.StatusBadRequest, expectedMessage: "Title is required."},
		{name: "unauthenticated", err: apperrors.Unauthenticated("Invalid credentials"), expectedStatus: http.StatusUnauthorized, expectedMessage: "Invalid credentials"},
		{name: "authorization", err: apperrors.Authorization("Forbidden"), expectedStatus: http.StatusForbidden, expectedMessage: "Forbidden"},
		{name: "not found", err: apperrors.NotFound("Resource not found"), expectedStatus: http.StatusNotFound, expectedMessage: "Resource not found"},
		{name: "conflict", err: apperrors.Conflict("Email already registered", nil), expectedStatus: http.StatusConflict, expectedMessage: "Email already registered"},
		{name: "upload failed", err: apperrors.UploadFailed(errors.New("timeout")), expectedStatus: http.StatusBadGateway, expectedMessage: "Failed to upload file: timeout"},
		{name: "persistence", err: apperrors.Persistence("Failed to save resource", errors.New("deadlock")), expectedStatus: http.StatusInternalServerError, expectedMessage: "Failed to save resource"},
		{name: "unclassified uses fallback", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMessage: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BaseHandler{Logger: nopLogger()}
			w := httptest.NewRecorder()

			h.RespondServiceError(w, tt.err, "fallback")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, errorBody(t, w))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		limit           int64
		expectedOK      bool
		expectedStatus  int
		expectedMessage string
	}{
		{name: "valid", body: `{"title":"x"}`, expectedOK: true},
		{name: "empty", body: "", expectedStatus: http.StatusBadRequest, expectedMessage: "request body is required"},
		{name: "malformed", body: `{"title":`, expectedStatus: http.StatusBadRequest, expectedMessage: "invalid request body"},
		{name: "unknown field", body: `{"title":"x","status":"approved"}`, expectedStatus: http.StatusBadRequest, expectedMessage: "invalid request body"},
		{name: "wrong type", body: `{"title":5}`, expectedStatus: http.StatusBadRequest, expectedMessage: "invalid request body"},
		{name: "too large", body: `{"title":"` + strings.Repeat("a", 64) + `"}`, limit: 16, expectedStatus: http.StatusRequestEntityTooLarge, expectedMessage: "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BaseHandler{Logger: nopLogger()}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(w, req.Body, tt.limit)
			}

			var dst struct {
				Title string `json:"title"`
			}
			ok := h.DecodeJSON(w, req, &dst)

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, "x", dst.Title)
				return
			}
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, errorBody(t, w))
		})
	}
}

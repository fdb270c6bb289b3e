package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProfileService struct {
	userID      string
	req         *models.UpdateProfileRequest
	passwordReq *models.ChangePasswordRequest
	profile     *models.Profile
	err         error
}

func (m *mockProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	m.userID = userID
	return m.profile, m.err
}

func (m *mockProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	m.userID = userID
	m.req = req
	return m.profile, m.err
}

func (m *mockProfileService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	m.userID = userID
	m.passwordReq = req
	return m.err
}

func TestProfileHandler_ChangePassword(t *testing.T) {
	const body = `{"currentPassword":"old-password","newPassword":"new-password","confirmPassword":"new-password"}`

	tests := []struct {
		name            string
		body            string
		auth            func(t *testing.T) string
		err             error
		expectedStatus  int
		expectedMessage string
		expectCall      bool
	}{
		{name: "changed", body: body, auth: userBearer, expectedStatus: http.StatusOK, expectCall: true},
		{
			name:            "mismatch",
			body:            body,
			auth:            userBearer,
			err:             apperrors.Validation("Passwords do not match"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Passwords do not match",
			expectCall:      true,
		},
		{
			name:            "unknown field",
			body:            `{"password":"new-password"}`,
			auth:            userBearer,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "invalid request body",
		},
		{name: "anonymous", body: body, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProfileService{err: tt.err}
			h := NewProfileHandler(svc, nopLogger(), authMw())

			authHeader := ""
			if tt.auth != nil {
				authHeader = tt.auth(t)
			}
			w := serve(newRouter(h), http.MethodPut, "/profile/password", strings.NewReader(tt.body), authHeader)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, errorBody(t, w))
			}
			if !tt.expectCall {
				assert.Nil(t, svc.passwordReq)
				return
			}
			require.NotNil(t, svc.passwordReq)
			assert.Equal(t, testUserID, svc.userID)
			assert.Equal(t, "old-password", svc.passwordReq.CurrentPassword)
			assert.Equal(t, "new-password", svc.passwordReq.NewPassword)
			if tt.err == nil {
				assert.JSONEq(t, `{"success":true}`, w.Body.String())
			}
		})
	}
}

type mockContactService struct {
	req *models.ContactRequest
	err error
}

func (m *mockContactService) Send(ctx context.Context, req *models.ContactRequest) error {
	m.req = req
	return m.err
}

func TestProfileHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		auth           func(t *testing.T) string
		err            error
		expectedStatus int
	}{
		{name: "own profile", auth: userBearer, expectedStatus: http.StatusOK},
		{name: "anonymous", expectedStatus: http.StatusUnauthorized},
		{name: "deleted profile", auth: userBearer, err: apperrors.NotFound("Profile not found"), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProfileService{profile: &models.Profile{ID: testUserID, Username: "amina", PasswordHash: "secret-hash"}, err: tt.err}
			h := NewProfileHandler(svc, nopLogger(), authMw())

			authHeader := ""
			if tt.auth != nil {
				authHeader = tt.auth(t)
			}
			w := serve(newRouter(h), http.MethodGet, "/profile", nil, authHeader)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, testUserID, svc.userID)
				assert.Contains(t, w.Body.String(), `"username":"amina"`)
				assert.NotContains(t, w.Body.String(), "secret-hash")
			}
		})
	}
}

func TestProfileHandler_Update(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "updated", expectedStatus: http.StatusOK},
		{
			name:            "username taken",
			err:             apperrors.Conflict("Username is already taken by another user", nil),
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Username is already taken by another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProfileService{profile: &models.Profile{ID: testUserID, Username: "amina_k"}, err: tt.err}
			h := NewProfileHandler(svc, nopLogger(), authMw())

			w := serve(newRouter(h), http.MethodPut, "/profile", strings.NewReader(`{"username":"amina_k"}`), userBearer(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			require.NotNil(t, svc.req)
			require.NotNil(t, svc.req.Username)
			assert.Equal(t, "amina_k", *svc.req.Username)
			assert.Nil(t, svc.req.FirstName)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, errorBody(t, w))
			}
		})
	}
}

func TestContactHandler_Send(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "sent",
			body:           `{"name":"Ali","email":"ali@example.org","message":"Salaam"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:            "missing fields",
			body:            `{"name":"Ali"}`,
			err:             apperrors.Validation("Missing required fields"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing required fields",
		},
		{
			name:            "queue failure",
			body:            `{"name":"Ali","email":"ali@example.org","message":"Salaam"}`,
			err:             errors.New("redis down"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to send message. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContactService{err: tt.err}
			h := NewContactHandler(svc, nopLogger())

			w := serve(newRouter(h), http.MethodPost, "/contact", strings.NewReader(tt.body), "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			require.NotNil(t, svc.req)
			assert.Equal(t, "Ali", svc.req.Name)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, errorBody(t, w))
				return
			}
			var got map[string]bool
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.True(t, got["success"])
		})
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSubmissionService struct {
	identity   models.Identity
	id         string
	submission *models.Submission
	contents   map[string]string
	result     *models.SubmissionResult
	err        error
}

func (m *mockSubmissionService) capture(identity models.Identity, id string, sub *models.Submission) {
	m.identity = identity
	m.id = id
	m.submission = sub
	m.contents = map[string]string{}

	files := append([]models.UploadFile{}, sub.AdditionalImages...)
	files = append(files, sub.Files...)
	if sub.FeaturedImage != nil {
		files = append(files, *sub.FeaturedImage)
	}
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		m.contents[f.Name] = string(data)
	}
}

func (m *mockSubmissionService) Create(ctx context.Context, identity models.Identity, sub *models.Submission) (*models.SubmissionResult, error) {
	m.capture(identity, "", sub)
	return m.result, m.err
}

func (m *mockSubmissionService) Update(ctx context.Context, identity models.Identity, id string, sub *models.Submission) (*models.SubmissionResult, error) {
	m.capture(identity, id, sub)
	return m.result, m.err
}

type mockResourceService struct {
	identity *models.Identity
	key      string
	resource *models.Resource
	cards    []models.ResourceCard
	download *models.DownloadResult
	err      error
}

func (m *mockResourceService) Get(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.Resource, error) {
	m.identity = identity
	m.key = idOrSlug
	return m.resource, m.err
}

func (m *mockResourceService) ListMine(ctx context.Context, userID string) ([]models.ResourceCard, error) {
	m.key = userID
	return m.cards, m.err
}

func (m *mockResourceService) Delete(ctx context.Context, identity models.Identity, id string) error {
	m.identity = &identity
	m.key = id
	return m.err
}

func (m *mockResourceService) Download(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.DownloadResult, error) {
	m.identity = identity
	m.key = idOrSlug
	return m.download, m.err
}

type mockBrowseService struct {
	filter models.BrowseFilter
	result *models.BrowseResult
	err    error
}

func (m *mockBrowseService) Browse(ctx context.Context, filter models.BrowseFilter) (*models.BrowseResult, error) {
	m.filter = filter
	return m.result, m.err
}

func setupResourceHandler() (*ResourceHandler, *mockSubmissionService, *mockResourceService, *mockBrowseService) {
	subs := &mockSubmissionService{}
	resources := &mockResourceService{}
	browser := &mockBrowseService{}
	h := NewResourceHandler(subs, resources, browser, nopLogger(), authMw(), optionalAuthMw())
	return h, subs, resources, browser
}

func TestResourceHandler_Browse(t *testing.T) {
	h, _, _, browser := setupResourceHandler()
	browser.result = &models.BrowseResult{
		Resources:  []models.ResourceCard{{ID: "r-1", Title: "Salah Chart"}},
		Total:      1,
		Page:       1,
		PageSize:   models.BrowsePageSize,
		TotalPages: 1,
	}

	w := serve(newRouter(h), http.MethodGet, "/resources?grades=Grade+1,Grade+2&sort=popular&page=1", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Grade 1", "Grade 2"}, browser.filter.Grades)
	assert.Equal(t, "popular", browser.filter.Sort)

	var got models.BrowseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "Salah Chart", got.Resources[0].Title)
}

func TestResourceHandler_Browse_Error(t *testing.T) {
	h, _, _, browser := setupResourceHandler()
	browser.err = errors.New("db down")

	w := serve(newRouter(h), http.MethodGet, "/resources", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to browse resources", errorBody(t, w))
}

func TestResourceHandler_Get(t *testing.T) {
	tests := []struct {
		name             string
		auth             func(t *testing.T) string
		err              error
		expectedStatus   int
		expectedIdentity *models.Identity
	}{
		{
			name:           "anonymous",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "signed in caller forwarded",
			auth:             userBearer,
			expectedStatus:   http.StatusOK,
			expectedIdentity: &models.Identity{UserID: testUserID, Role: models.RoleUser},
		},
		{
			name:             "admin forwarded",
			auth:             adminBearer,
			expectedStatus:   http.StatusOK,
			expectedIdentity: &models.Identity{UserID: testAdminID, Role: models.RoleAdmin},
		},
		{
			name:           "hidden resource",
			err:            apperrors.NotFound("Resource not found"),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, resources, _ := setupResourceHandler()
			resources.resource = &models.Resource{ID: "r-1", Slug: "salah-chart"}
			resources.err = tt.err

			authHeader := ""
			if tt.auth != nil {
				authHeader = tt.auth(t)
			}
			w := serve(newRouter(h), http.MethodGet, "/resources/salah-chart", nil, authHeader)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "salah-chart", resources.key)
			assert.Equal(t, tt.expectedIdentity, resources.identity)
		})
	}
}

func TestResourceHandler_Create_JSON(t *testing.T) {
	h, subs, _, _ := setupResourceHandler()
	subs.result = &models.SubmissionResult{Success: true, Resource: &models.Resource{ID: "r-new"}, Redirect: "/resources/r-new"}

	body := `{"title":"Salah Chart","description":"<p>Steps</p>","targetGrades":["Grade 1"],"resourceTypes":["Story"],"externalLinks":[{"url":"https://example.org"}]}`
	w := serve(newRouter(h), http.MethodPost, "/resources", strings.NewReader(body), userBearer(t))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.Identity{UserID: testUserID, Role: models.RoleUser}, subs.identity)
	assert.Equal(t, "Salah Chart", subs.submission.Input.Title)
	assert.Equal(t, []string{"Grade 1"}, subs.submission.Input.TargetGrades)
	assert.Nil(t, subs.submission.FeaturedImage)
	assert.Empty(t, subs.submission.Files)

	var got models.SubmissionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "/resources/r-new", got.Redirect)
}

func multipartSubmission(t *testing.T, data string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != "" {
		require.NoError(t, mw.WriteField(fieldData, data))
	}
	for field, names := range files {
		for _, name := range names {
			part, err := mw.CreateFormFile(field, name)
			require.NoError(t, err)
			if name != "empty.bin" {
				_, err = part.Write([]byte("content of " + name))
				require.NoError(t, err)
			}
		}
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestResourceHandler_Create_Multipart(t *testing.T) {
	h, subs, _, _ := setupResourceHandler()
	subs.result = &models.SubmissionResult{Success: true}

	body, contentType := multipartSubmission(t, `{"title":"Ramadan Pack"}`, map[string][]string{
		fieldFeaturedImage:    {"cover.png"},
		fieldAdditionalImages: {"page1.png", "page2.png"},
		fieldAttachments:      {"pack.pdf", "empty.bin"},
	})
	req := httptest.NewRequest(http.MethodPost, "/resources", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", userBearer(t))
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	sub := subs.submission
	assert.Equal(t, "Ramadan Pack", sub.Input.Title)
	require.NotNil(t, sub.FeaturedImage)
	assert.Equal(t, "cover.png", sub.FeaturedImage.Name)
	assert.Len(t, sub.AdditionalImages, 2)
	require.Len(t, sub.Files, 1, "empty file inputs are skipped")
	assert.Equal(t, "pack.pdf", sub.Files[0].Name)
	assert.Equal(t, "content of pack.pdf", subs.contents["pack.pdf"])
	assert.Equal(t, "content of cover.png", subs.contents["cover.png"])
}

func TestResourceHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name            string
		authenticated   bool
		body            func(t *testing.T) (io.Reader, string)
		serviceErr      error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "anonymous",
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{}`), "application/json"
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "authentication required",
		},
		{
			name:          "malformed json",
			authenticated: true,
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"title":`), "application/json"
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "invalid request body",
		},
		{
			name:          "malformed data field",
			authenticated: true,
			body: func(t *testing.T) (io.Reader, string) {
				return multipartSubmission(t, `{"title":`, nil)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "invalid data field",
		},
		{
			name:          "validation error",
			authenticated: true,
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"title":""}`), "application/json"
			},
			serviceErr:      apperrors.Validation("Title is required."),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Title is required.",
		},
		{
			name:          "upload failure",
			authenticated: true,
			body: func(t *testing.T) (io.Reader, string) {
				return strings.NewReader(`{"title":"x"}`), "application/json"
			},
			serviceErr:      apperrors.UploadFailed(errors.New("storage timeout")),
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "Failed to upload file: storage timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, subs, _, _ := setupResourceHandler()
			subs.err = tt.serviceErr

			body, contentType := tt.body(t)
			req := httptest.NewRequest(http.MethodPost, "/resources", body)
			req.Header.Set("Content-Type", contentType)
			if tt.authenticated {
				req.Header.Set("Authorization", userBearer(t))
			}
			w := httptest.NewRecorder()
			newRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMessage == "authentication required" {
				assert.Contains(t, w.Body.String(), tt.expectedMessage)
				return
			}
			assert.Equal(t, tt.expectedMessage, errorBody(t, w))
		})
	}
}

func TestResourceHandler_Update(t *testing.T) {
	h, subs, _, _ := setupResourceHandler()
	subs.result = &models.SubmissionResult{Success: true}

	w := serve(newRouter(h), http.MethodPut, "/resources/r-7", strings.NewReader(`{"title":"New"}`), adminBearer(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r-7", subs.id)
	assert.Equal(t, models.RoleAdmin, subs.identity.Role)
	assert.Equal(t, "New", subs.submission.Input.Title)
}

func TestResourceHandler_Update_Forbidden(t *testing.T) {
	h, subs, _, _ := setupResourceHandler()
	subs.err = apperrors.Authorization("You can only edit your own pending resources")

	w := serve(newRouter(h), http.MethodPut, "/resources/r-7", strings.NewReader(`{"title":"New"}`), userBearer(t))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only edit your own pending resources", errorBody(t, w))
}

func TestResourceHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "deleted", expectedStatus: http.StatusNoContent},
		{name: "approved", err: apperrors.Authorization("Approved resources cannot be deleted"), expectedStatus: http.StatusForbidden},
		{name: "missing", err: apperrors.NotFound("Resource not found"), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, resources, _ := setupResourceHandler()
			resources.err = tt.err

			w := serve(newRouter(h), http.MethodDelete, "/resources/r-3", nil, userBearer(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "r-3", resources.key)
			require.NotNil(t, resources.identity)
			assert.Equal(t, testUserID, resources.identity.UserID)
		})
	}
}

func TestResourceHandler_Delete_RequiresAuth(t *testing.T) {
	h, _, resources, _ := setupResourceHandler()

	w := serve(newRouter(h), http.MethodDelete, "/resources/r-3", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, resources.key)
}

func TestResourceHandler_Download(t *testing.T) {
	h, _, resources, _ := setupResourceHandler()
	fileURL := "https://files.test/pack.pdf"
	resources.download = &models.DownloadResult{Success: true, Slug: "pack", FileURL: &fileURL, Downloads: 8}

	w := serve(newRouter(h), http.MethodPost, "/resources/pack/download", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resources.identity)
	assert.Equal(t, "pack", resources.key)

	var got models.DownloadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 8, got.Downloads)
	require.NotNil(t, got.FileURL)
	assert.Equal(t, fileURL, *got.FileURL)
}

func TestResourceHandler_ListMine(t *testing.T) {
	h, _, resources, _ := setupResourceHandler()
	resources.cards = []models.ResourceCard{{ID: "r-1", Status: models.StatusPending}}

	w := serve(newRouter(h), http.MethodGet, "/me/resources", nil, userBearer(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUserID, resources.key)

	var got []models.ResourceCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusPending, got[0].Status)
}

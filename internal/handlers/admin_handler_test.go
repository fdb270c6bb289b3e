package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModerationService struct {
	status string
	page   int
	id     string
	action string
	result *models.BrowseResult
	err    error
}

func (m *mockModerationService) Queue(ctx context.Context, status string, page int) (*models.BrowseResult, error) {
	m.status = status
	m.page = page
	return m.result, m.err
}

func (m *mockModerationService) Approve(ctx context.Context, id string) (*models.Resource, error) {
	m.id, m.action = id, "approve"
	if m.err != nil {
		return nil, m.err
	}
	return &models.Resource{ID: id, Status: models.StatusApproved}, nil
}

func (m *mockModerationService) Reject(ctx context.Context, id string) (*models.Resource, error) {
	m.id, m.action = id, "reject"
	if m.err != nil {
		return nil, m.err
	}
	return &models.Resource{ID: id, Status: models.StatusRejected}, nil
}

type mockFeaturedListService struct {
	lists   []models.FeaturedList
	req     *models.FeaturedListRequest
	id      string
	ids     []string
	deleted string
	err     error
}

func (m *mockFeaturedListService) List(ctx context.Context) ([]models.FeaturedList, error) {
	return m.lists, m.err
}

func (m *mockFeaturedListService) Create(ctx context.Context, req *models.FeaturedListRequest) (*models.FeaturedList, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.FeaturedList{ID: "l-new", Title: req.Title, IsActive: req.IsActive}, nil
}

func (m *mockFeaturedListService) Update(ctx context.Context, id string, req *models.FeaturedListRequest) (*models.FeaturedList, error) {
	m.id = id
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.FeaturedList{ID: id, Title: req.Title}, nil
}

func (m *mockFeaturedListService) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *mockFeaturedListService) Reorder(ctx context.Context, ids []string) error {
	m.ids = ids
	return m.err
}

func setupAdminHandler() (*AdminHandler, *mockModerationService, *mockFeaturedListService) {
	moderation := &mockModerationService{}
	lists := &mockFeaturedListService{}
	return NewAdminHandler(moderation, lists, nopLogger(), adminMw()), moderation, lists
}

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	tests := []struct {
		name           string
		auth           func(t *testing.T) string
		expectedStatus int
	}{
		{name: "anonymous", expectedStatus: http.StatusUnauthorized},
		{name: "regular user", auth: userBearer, expectedStatus: http.StatusForbidden},
		{name: "admin", auth: adminBearer, expectedStatus: http.StatusOK},
	}

	routes := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/admin/resources"},
		{method: http.MethodGet, path: "/admin/featured-lists"},
	}

	for _, tt := range tests {
		for _, route := range routes {
			t.Run(tt.name+" "+route.path, func(t *testing.T) {
				h, moderation, _ := setupAdminHandler()
				moderation.result = &models.BrowseResult{}

				authHeader := ""
				if tt.auth != nil {
					authHeader = tt.auth(t)
				}
				w := serve(newRouter(h), route.method, route.path, nil, authHeader)

				assert.Equal(t, tt.expectedStatus, w.Code)
			})
		}
	}
}

func TestAdminHandler_Queue(t *testing.T) {
	h, moderation, _ := setupAdminHandler()
	moderation.result = &models.BrowseResult{Resources: []models.ResourceCard{{ID: "r-1", Status: models.StatusPending}}, Total: 1, Page: 2}

	w := serve(newRouter(h), http.MethodGet, "/admin/resources?status=pending&page=2", nil, adminBearer(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", moderation.status)
	assert.Equal(t, 2, moderation.page)
}

func TestAdminHandler_Queue_BadStatus(t *testing.T) {
	h, moderation, _ := setupAdminHandler()
	moderation.err = apperrors.Validation(`Invalid status "archived".`)

	w := serve(newRouter(h), http.MethodGet, "/admin/resources?status=archived", nil, adminBearer(t))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Invalid status "archived".`, errorBody(t, w))
}

func TestAdminHandler_Moderate(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		err            error
		expectedAction string
		expectedStatus int
		expectedState  models.ResourceStatus
	}{
		{name: "approve", path: "/admin/resources/r-9/approve", expectedAction: "approve", expectedStatus: http.StatusOK, expectedState: models.StatusApproved},
		{name: "reject", path: "/admin/resources/r-9/reject", expectedAction: "reject", expectedStatus: http.StatusOK, expectedState: models.StatusRejected},
		{name: "missing", path: "/admin/resources/r-9/approve", err: apperrors.NotFound("Resource not found"), expectedAction: "approve", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, moderation, _ := setupAdminHandler()
			moderation.err = tt.err

			w := serve(newRouter(h), http.MethodPost, tt.path, nil, adminBearer(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "r-9", moderation.id)
			assert.Equal(t, tt.expectedAction, moderation.action)
			if tt.expectedStatus == http.StatusOK {
				var got models.Resource
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, tt.expectedState, got.Status)
			}
		})
	}
}

func TestAdminHandler_CreateFeatured(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "created",
			body:           `{"title":"Ramadan","filterCriteria":{"topics":["Shahr Ramaḍān"]},"isActive":true}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:            "active limit",
			body:            `{"title":"Fourth","isActive":true}`,
			err:             apperrors.Validation("Only 3 lists can be active at once."),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Only 3 lists can be active at once.",
		},
		{
			name:            "empty body",
			body:            ``,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "request body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, lists := setupAdminHandler()
			lists.err = tt.err

			w := serve(newRouter(h), http.MethodPost, "/admin/featured-lists", strings.NewReader(tt.body), adminBearer(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, errorBody(t, w))
				return
			}
			require.NotNil(t, lists.req)
			assert.Equal(t, "Ramadan", lists.req.Title)
			assert.Equal(t, []string{"Shahr Ramaḍān"}, lists.req.FilterCriteria.Topics)
			assert.True(t, lists.req.IsActive)
		})
	}
}

func TestAdminHandler_UpdateAndDeleteFeatured(t *testing.T) {
	h, _, lists := setupAdminHandler()
	router := newRouter(h)

	w := serve(router, http.MethodPut, "/admin/featured-lists/l-2", strings.NewReader(`{"title":"Renamed"}`), adminBearer(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "l-2", lists.id)
	assert.Equal(t, "Renamed", lists.req.Title)

	w = serve(router, http.MethodDelete, "/admin/featured-lists/l-2", nil, adminBearer(t))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "l-2", lists.deleted)
}

func TestAdminHandler_ReorderFeatured(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "reordered", expectedStatus: http.StatusOK},
		{name: "unknown id", err: apperrors.NotFound("Featured list not found"), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, lists := setupAdminHandler()
			lists.err = tt.err

			w := serve(newRouter(h), http.MethodPut, "/admin/featured-lists/order", strings.NewReader(`{"ids":["l-3","l-1","l-2"]}`), adminBearer(t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, []string{"l-3", "l-1", "l-2"}, lists.ids)
			assert.Empty(t, lists.id, "order must not be routed as a list id")
		})
	}
}

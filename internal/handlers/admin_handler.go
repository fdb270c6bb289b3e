package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// ModerationService is the interface that wraps methods for the review queue.
type ModerationService interface {
	// Method Queue returns a page of resources for review.
	//
	// "status" parameter filters by pending, approved or rejected; empty lists every status.
	// "page" parameter is 1 based.
	//
	// If the status is unknown or some error occurs during data retrieve, the error will be returned together with "nil" value.
	Queue(ctx context.Context, status string, page int) (*models.BrowseResult, error)
	// Method Approve makes a resource publicly visible and notifies its owner.
	//
	// If the resource does not exist, a NotFound error will be returned together with "nil" value.
	Approve(ctx context.Context, id string) (*models.Resource, error)
	// Method Reject hides a resource from the public and notifies its owner.
	//
	// Please reference Approve method for more information about error values.
	Reject(ctx context.Context, id string) (*models.Resource, error)
}

// FeaturedListService is the interface that wraps methods for homepage featured list curation.
type FeaturedListService interface {
	// Method List returns every featured list in display order.
	List(ctx context.Context) ([]models.FeaturedList, error)
	// Method Create stores a new featured list after the existing ones.
	//
	// If the title is empty, a criteria value is outside the taxonomy or a fourth list would be active, a Validation error will be returned together with "nil" value.
	Create(ctx context.Context, req *models.FeaturedListRequest) (*models.FeaturedList, error)
	// Method Update rewrites the title, criteria and active flag of a featured list.
	//
	// Please reference Create method for more information about error values.
	Update(ctx context.Context, id string, req *models.FeaturedListRequest) (*models.FeaturedList, error)
	// Method Delete removes a featured list.
	//
	// If the list does not exist, a NotFound error will be returned.
	Delete(ctx context.Context, id string) error
	// Method Reorder persists the display order given as the full sequence of list ids.
	//
	// If an id is unknown, nothing is changed and a NotFound error will be returned.
	Reorder(ctx context.Context, ids []string) error
}

// AdminHandler handles moderation and curation requests
type AdminHandler struct {
	BaseHandler
	moderation ModerationService
	lists      FeaturedListService
	adminMw    func(http.Handler) http.Handler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(moderation ModerationService, lists FeaturedListService, logger *zap.Logger, adminMw func(http.Handler) http.Handler) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{Logger: logger},
		moderation:  moderation,
		lists:       lists,
		adminMw:     adminMw,
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.adminMw)

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.Queue)
			r.Post("/{id}/approve", h.Approve)
			r.Post("/{id}/reject", h.Reject)
		})

		r.Route("/featured-lists", func(r chi.Router) {
			r.Get("/", h.ListFeatured)
			r.Post("/", h.CreateFeatured)
			r.Put("/order", h.ReorderFeatured)
			r.Put("/{id}", h.UpdateFeatured)
			r.Delete("/{id}", h.DeleteFeatured)
		})
	})
}

// Queue handles GET /admin/resources
// @Summary Review queue
// @Description List resources by moderation status, newest first, 12 per page
// @Tags admin
// @Produce json
// @Param status query string false "pending, approved or rejected; empty for all"
// @Param page query int false "Page number, default 1"
// @Success 200 {object} models.BrowseResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /admin/resources [get]
func (h *AdminHandler) Queue(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	result, err := h.moderation.Queue(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		h.RespondServiceError(w, err, "failed to load review queue")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// Approve handles POST /admin/resources/{id}/approve
// @Summary Approve a resource
// @Tags admin
// @Produce json
// @Param id path string true "Resource id"
// @Success 200 {object} models.Resource
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/resources/{id}/approve [post]
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	res, err := h.moderation.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to approve resource")
		return
	}

	h.RespondJSON(w, http.StatusOK, res)
}

// Reject handles POST /admin/resources/{id}/reject
// @Summary Reject a resource
// @Tags admin
// @Produce json
// @Param id path string true "Resource id"
// @Success 200 {object} models.Resource
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/resources/{id}/reject [post]
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	res, err := h.moderation.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to reject resource")
		return
	}

	h.RespondJSON(w, http.StatusOK, res)
}

// ListFeatured handles GET /admin/featured-lists
// @Summary List featured lists
// @Tags admin
// @Produce json
// @Success 200 {array} models.FeaturedList
// @Security BearerAuth
// @Router /admin/featured-lists [get]
func (h *AdminHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.List(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to list featured lists")
		return
	}

	h.RespondJSON(w, http.StatusOK, lists)
}

// CreateFeatured handles POST /admin/featured-lists
// @Summary Create a featured list
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.FeaturedListRequest true "Featured list"
// @Success 201 {object} models.FeaturedList
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/featured-lists [post]
func (h *AdminHandler) CreateFeatured(w http.ResponseWriter, r *http.Request) {
	var req models.FeaturedListRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.lists.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create featured list")
		return
	}

	h.RespondJSON(w, http.StatusCreated, list)
}

// UpdateFeatured handles PUT /admin/featured-lists/{id}
// @Summary Update a featured list
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Featured list id"
// @Param request body models.FeaturedListRequest true "Featured list"
// @Success 200 {object} models.FeaturedList
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/featured-lists/{id} [put]
func (h *AdminHandler) UpdateFeatured(w http.ResponseWriter, r *http.Request) {
	var req models.FeaturedListRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.lists.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update featured list")
		return
	}

	h.RespondJSON(w, http.StatusOK, list)
}

// DeleteFeatured handles DELETE /admin/featured-lists/{id}
// @Summary Delete a featured list
// @Tags admin
// @Param id path string true "Featured list id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/featured-lists/{id} [delete]
func (h *AdminHandler) DeleteFeatured(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err, "failed to delete featured list")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderFeatured handles PUT /admin/featured-lists/order
// @Summary Reorder featured lists
// @Description Persist the display order given as the full id sequence, first id shown first
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.ReorderRequest true "List ids in display order"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/featured-lists/order [put]
func (h *AdminHandler) ReorderFeatured(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.lists.Reorder(r.Context(), req.IDs); err != nil {
		h.RespondServiceError(w, err, "failed to reorder featured lists")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

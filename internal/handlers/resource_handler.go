package handlers

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// multipartMemory is how much of a multipart body is kept in memory; the rest spills to temp files
const multipartMemory = 32 << 20

// Multipart field names of a resource submission
const (
	fieldData             = "data"
	fieldFeaturedImage    = "featured_image"
	fieldAdditionalImages = "additional_images"
	fieldAttachments      = "attachments"
)

// SubmissionService is the interface that wraps methods for resource create and edit business logic.
type SubmissionService interface {
	// Method Create validates a new resource, uploads its files and stores it as pending.
	//
	// "identity" parameter is the submitting user.
	// "sub" parameter carries the metadata and the files to upload.
	//
	// If validation, an upload or the insert fails, the error will be returned together with "nil" value.
	Create(ctx context.Context, identity models.Identity, sub *models.Submission) (*models.SubmissionResult, error)
	// Method Update re-runs the submission pipeline against an existing resource.
	//
	// "id" parameter identifies the resource. Only its owner while pending, or an admin, may update it.
	//
	// Please reference Create method for more information about parameters and error values.
	Update(ctx context.Context, identity models.Identity, id string, sub *models.Submission) (*models.SubmissionResult, error)
}

// ResourceService is the interface that wraps methods for reading and removing resources.
type ResourceService interface {
	// Method Get retrieves a resource by id or slug.
	//
	// "identity" parameter is nil for anonymous callers. Resources that are not approved are only visible to their owner and admins.
	//
	// If the resource does not exist or is hidden from the caller, a NotFound error will be returned together with "nil" value.
	Get(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.Resource, error)
	// Method ListMine retrieves the caller's own resources, newest first.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	ListMine(ctx context.Context, userID string) ([]models.ResourceCard, error)
	// Method Delete removes a pending or rejected resource owned by the caller.
	//
	// If the caller is not the owner or the resource is approved, an Authorization error will be returned.
	Delete(ctx context.Context, identity models.Identity, id string) error
	// Method Download counts a download and returns the primary file URL.
	//
	// Please reference Get method for more information about visibility rules.
	Download(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.DownloadResult, error)
}

// BrowseService is the interface that wraps the public catalogue query.
type BrowseService interface {
	// Method Browse returns one page of approved resources matching the filter.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	Browse(ctx context.Context, filter models.BrowseFilter) (*models.BrowseResult, error)
}

// ResourceHandler handles resource HTTP requests
type ResourceHandler struct {
	BaseHandler
	submissions    SubmissionService
	resources      ResourceService
	browser        BrowseService
	authMw         func(http.Handler) http.Handler
	optionalAuthMw func(http.Handler) http.Handler
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(
	submissions SubmissionService,
	resources ResourceService,
	browser BrowseService,
	logger *zap.Logger,
	authMw func(http.Handler) http.Handler,
	optionalAuthMw func(http.Handler) http.Handler,
) *ResourceHandler {
	return &ResourceHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		submissions:    submissions,
		resources:      resources,
		browser:        browser,
		authMw:         authMw,
		optionalAuthMw: optionalAuthMw,
	}
}

// RegisterRoutes registers all resource handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *ResourceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/resources", h.Browse)
	r.With(h.optionalAuthMw).Get("/resources/{id}", h.Get)
	r.With(h.optionalAuthMw).Post("/resources/{id}/download", h.Download)

	r.Group(func(r chi.Router) {
		r.Use(h.authMw)
		r.Post("/resources", h.Create)
		r.Put("/resources/{id}", h.Update)
		r.Delete("/resources/{id}", h.Delete)
		r.Get("/me/resources", h.ListMine)
	})
}

// Browse handles GET /resources
// @Summary Browse approved resources
// @Description Filter approved resources by taxonomy values and free text. List parameters accept comma separated or repeated values.
// @Tags resources
// @Produce json
// @Param q query string false "Text searched in title and description"
// @Param grades query string false "Grade levels"
// @Param types query string false "Resource types"
// @Param topics query string false "Topics from any category"
// @Param curriculum query string false "Curriculum tags"
// @Param sort query string false "newest (default), oldest or popular"
// @Param page query int false "Page number, default 1"
// @Success 200 {object} models.BrowseResult
// @Failure 500 {object} map[string]string
// @Router /resources [get]
func (h *ResourceHandler) Browse(w http.ResponseWriter, r *http.Request) {
	result, err := h.browser.Browse(r.Context(), ParseBrowseFilter(r.URL.Query()))
	if err != nil {
		h.RespondServiceError(w, err, "failed to browse resources")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// Get handles GET /resources/{id}
// @Summary Get a resource
// @Description Get a resource by id or slug. Pending and rejected resources are visible to their owner and admins only.
// @Tags resources
// @Produce json
// @Param id path string true "Resource id or slug"
// @Success 200 {object} models.Resource
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [get]
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.resources.Get(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to get resource")
		return
	}

	h.RespondJSON(w, http.StatusOK, res)
}

// Create handles POST /resources
// @Summary Submit a resource
// @Description Submit a new resource for review. Accepts a JSON ResourceInput, or multipart with a "data" JSON field plus featured_image, additional_images and attachments files.
// @Tags resources
// @Accept json,mpfd
// @Produce json
// @Param data formData string false "ResourceInput as JSON"
// @Param featured_image formData file false "Featured image"
// @Param additional_images formData file false "Additional images"
// @Param attachments formData file false "Attachment files"
// @Success 201 {object} models.SubmissionResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /resources [post]
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	sub, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}
	defer removeMultipart(r)

	result, err := h.submissions.Create(r.Context(), caller, sub)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create resource")
		return
	}

	h.RespondJSON(w, http.StatusCreated, result)
}

// Update handles PUT /resources/{id}
// @Summary Edit a resource
// @Description Replace the metadata and files of a resource. Owners may edit while pending; admins always.
// @Tags resources
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Resource id"
// @Param data formData string false "ResourceInput as JSON"
// @Param featured_image formData file false "Featured image"
// @Param additional_images formData file false "Additional images"
// @Param attachments formData file false "Attachment files"
// @Success 200 {object} models.SubmissionResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [put]
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	sub, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}
	defer removeMultipart(r)

	result, err := h.submissions.Update(r.Context(), caller, chi.URLParam(r, "id"), sub)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update resource")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /resources/{id}
// @Summary Delete a resource
// @Description Delete one of the caller's pending or rejected resources
// @Tags resources
// @Produce json
// @Param id path string true "Resource id"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [delete]
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.resources.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.RespondServiceError(w, err, "failed to delete resource")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download handles POST /resources/{id}/download
// @Summary Count a download
// @Description Increment the download counter and return the primary file URL
// @Tags resources
// @Produce json
// @Param id path string true "Resource id or slug"
// @Success 200 {object} models.DownloadResult
// @Failure 404 {object} map[string]string
// @Router /resources/{id}/download [post]
func (h *ResourceHandler) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.resources.Download(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to record download")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// ListMine handles GET /me/resources
// @Summary List own resources
// @Description List every resource submitted by the caller, whatever its status
// @Tags resources
// @Produce json
// @Success 200 {array} models.ResourceCard
// @Failure 401 {object} map[string]string
// @Router /me/resources [get]
func (h *ResourceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	cards, err := h.resources.ListMine(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list resources")
		return
	}

	h.RespondJSON(w, http.StatusOK, cards)
}

// parseSubmission reads a JSON body, or a multipart body with the metadata in the "data" field
func (h *ResourceHandler) parseSubmission(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		sub := &models.Submission{}
		if !h.DecodeJSON(w, r, &sub.Input) {
			return nil, false
		}
		return sub, true
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Info("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return nil, false
	}

	sub := &models.Submission{}
	if data := r.FormValue(fieldData); data != "" {
		if err := decodeStrict(strings.NewReader(data), &sub.Input); err != nil {
			removeMultipart(r)
			h.RespondError(w, http.StatusBadRequest, "invalid data field")
			return nil, false
		}
	}

	files := r.MultipartForm.File
	if images := uploadFiles(files[fieldFeaturedImage]); len(images) > 0 {
		sub.FeaturedImage = &images[0]
	}
	sub.AdditionalImages = uploadFiles(files[fieldAdditionalImages])
	sub.Files = uploadFiles(files[fieldAttachments])

	return sub, true
}

// uploadFiles converts multipart headers into upload sources, skipping empty file inputs
func uploadFiles(headers []*multipart.FileHeader) []models.UploadFile {
	out := make([]models.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size == 0 {
			continue
		}
		out = append(out, uploadFile(fh))
	}
	return out
}

func uploadFile(fh *multipart.FileHeader) models.UploadFile {
	return models.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

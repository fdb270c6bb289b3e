package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// Uploader is the interface that wraps the single file upload used by the submission form.
type Uploader interface {
	// Method Upload stores a file under the owner's prefix of a bucket.
	//
	// "bucket" parameter must be "resource-files" or "resource-thumbnails".
	//
	// If the bucket is invalid, the file is missing or storage keeps failing, the error will be returned together with "nil" value.
	Upload(ctx context.Context, ownerID, bucket string, file models.UploadFile) (*models.UploadResult, error)
}

// UploadHandler handles direct file uploads
type UploadHandler struct {
	BaseHandler
	uploader Uploader
	authMw   func(http.Handler) http.Handler
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader Uploader, logger *zap.Logger, authMw func(http.Handler) http.Handler) *UploadHandler {
	return &UploadHandler{
		BaseHandler: BaseHandler{Logger: logger},
		uploader:    uploader,
		authMw:      authMw,
	}
}

// RegisterRoutes registers all upload handler routes
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.With(h.authMw).Post("/uploads", h.Upload)
}

// Upload handles POST /uploads
// @Summary Upload a file
// @Description Store a single file and return its public URL and storage path
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Param file formData file true "File to store"
// @Param bucket formData string true "resource-files or resource-thumbnails"
// @Success 200 {object} models.UploadResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}
	defer removeMultipart(r)

	var file models.UploadFile
	if headers := r.MultipartForm.File["file"]; len(headers) > 0 && headers[0].Size > 0 {
		file = uploadFile(headers[0])
	}

	result, err := h.uploader.Upload(r.Context(), caller.UserID, r.FormValue("bucket"), file)
	if err != nil {
		h.RespondServiceError(w, err, "failed to upload file")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

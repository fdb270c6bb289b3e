package handlers

import (
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/storage"
	"go.uber.org/zap"
)

// FileOpener is the interface that wraps reading objects back from the local store.
type FileOpener interface {
	// Method Open opens a stored object for reading.
	//
	// "bucket" parameter must be a known bucket; "objectPath" cannot escape it.
	//
	// If the object does not exist, an error satisfying os.IsNotExist will be returned together with "nil" value.
	Open(bucket, objectPath string) (*os.File, error)
}

// MediaHandler serves files written by the local object store
type MediaHandler struct {
	BaseHandler
	files FileOpener
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(files FileOpener, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{Logger: logger},
		files:       files,
	}
}

// RegisterRoutes registers all media handler routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/media/{bucket}/*", h.Serve)
}

// Serve handles GET /media/{bucket}/*
// @Summary Download a stored file
// @Description Serve an object from the local store with range request support
// @Tags media
// @Produce octet-stream
// @Param bucket path string true "resource-files or resource-thumbnails"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /media/{bucket}/{path} [get]
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	objectPath := chi.URLParam(r, "*")
	if !storage.IsValidBucket(bucket) || objectPath == "" {
		h.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	file, err := h.files.Open(bucket, objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open file", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}
	if info.IsDir() {
		h.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, path.Base(objectPath), info.ModTime(), file)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// ContactService is the interface that wraps the contact form.
type ContactService interface {
	// Method Send queues a contact message for the site administrators.
	//
	// If name, email or message is missing or invalid, a Validation error will be returned.
	Send(ctx context.Context, req *models.ContactRequest) error
}

// ContactHandler handles contact form requests
type ContactHandler struct {
	BaseHandler
	contactService ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		contactService: contactService,
	}
}

// RegisterRoutes registers all contact handler routes
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.Send)
}

// Send handles POST /contact
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body models.ContactRequest true "Contact message"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /contact [post]
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.contactService.Send(r.Context(), &req); err != nil {
		h.RespondServiceError(w, err, "Failed to send message. Please try again.")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/tasks"
	"go.uber.org/zap"
)

// ContactNotifier enqueues contact form messages
type ContactNotifier interface {
	ContactMessage(ctx context.Context, p tasks.ContactMessagePayload) error
}

// contactService implements ContactService
type contactService struct {
	notifier   ContactNotifier
	validator  StructValidator
	logger     *zap.Logger
	adminEmail string
}

// NewContactService creates a new contact service
func NewContactService(notifier ContactNotifier, validator StructValidator, logger *zap.Logger, adminEmail string) *contactService {
	return &contactService{
		notifier:   notifier,
		validator:  validator,
		logger:     logger,
		adminEmail: adminEmail,
	}
}

// Send forwards a contact form message to the site administrators
func (s *contactService) Send(ctx context.Context, req *models.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Message == "" {
		return apperrors.Validation("Missing required fields")
	}
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	if s.adminEmail == "" {
		s.logger.Error("contact message dropped: ADMIN_EMAIL is not configured")
		return apperrors.Persistence("Failed to send message. Please try again.", errors.New("admin email not configured"))
	}

	err := s.notifier.ContactMessage(ctx, tasks.ContactMessagePayload{
		Recipient: s.adminEmail,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		s.logger.Error("failed to enqueue contact message", zap.Error(err))
		return apperrors.Persistence("Failed to send message. Please try again.", err)
	}

	return nil
}

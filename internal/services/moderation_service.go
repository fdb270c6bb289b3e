package services

import (
	"context"
	"fmt"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/tasks"
	"go.uber.org/zap"
)

// ModerationRepository is the interface that wraps methods for Resource table data access needed by moderators
type ModerationRepository interface {
	// Method ListByStatus retrieves a page of resources, newest first.
	//
	// "status" parameter filters by moderation state; nil selects every state.
	// "page" and "count" parameters select the page.
	//
	// If some error occurs during retrieval, the error will be returned together with "nil" value.
	ListByStatus(ctx context.Context, status *models.ResourceStatus, page, count int) ([]models.ResourceCard, error)
	// Method CountByStatus counts resources in a moderation state; nil counts every state.
	CountByStatus(ctx context.Context, status *models.ResourceStatus) (int, error)
	// Method GetByID retrieves a resource by ID.
	//
	// If resource with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	// Method UpdateStatus sets the moderation state of a resource.
	//
	// If the resource does not exist, the error will be returned.
	UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error
}

// OwnerRepository reads the profile of a resource owner
type OwnerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// ModerationNotifier enqueues owner notifications
type ModerationNotifier interface {
	ResourceModerated(ctx context.Context, p tasks.ResourceModeratedPayload) error
}

// moderationService implements ModerationService
type moderationService struct {
	repo      ModerationRepository
	owners    OwnerRepository
	notifier  ModerationNotifier
	homeCache cache.Cache
	logger    *zap.Logger
	siteURL   string
}

// NewModerationService creates a new moderation service
func NewModerationService(
	repo ModerationRepository,
	owners OwnerRepository,
	notifier ModerationNotifier,
	homeCache cache.Cache,
	logger *zap.Logger,
	siteURL string,
) *moderationService {
	return &moderationService{
		repo:      repo,
		owners:    owners,
		notifier:  notifier,
		homeCache: homeCache,
		logger:    logger,
		siteURL:   siteURL,
	}
}

// Queue returns a page of resources for review. An empty status lists every state.
func (s *moderationService) Queue(ctx context.Context, status string, page int) (*models.BrowseResult, error) {
	var filter *models.ResourceStatus
	if status != "" {
		st := models.ResourceStatus(status)
		if !st.IsValid() {
			return nil, apperrors.Validation(fmt.Sprintf("Invalid status %q.", status))
		}
		filter = &st
	}
	if page < 1 {
		page = 1
	}

	cards, err := s.repo.ListByStatus(ctx, filter, page, models.BrowsePageSize)
	if err != nil {
		s.logger.Error("failed to list moderation queue", zap.Error(err))
		return nil, apperrors.Persistence("Failed to load resources.", err)
	}
	total, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count moderation queue", zap.Error(err))
		return nil, apperrors.Persistence("Failed to load resources.", err)
	}

	return &models.BrowseResult{
		Resources:  cards,
		Total:      total,
		Page:       page,
		PageSize:   models.BrowsePageSize,
		TotalPages: totalPages(total, models.BrowsePageSize),
	}, nil
}

// Approve makes a resource publicly visible
func (s *moderationService) Approve(ctx context.Context, id string) (*models.Resource, error) {
	return s.setStatus(ctx, id, models.StatusApproved)
}

// Reject hides a resource from the public; its owner still sees it
func (s *moderationService) Reject(ctx context.Context, id string) (*models.Resource, error) {
	return s.setStatus(ctx, id, models.StatusRejected)
}

func (s *moderationService) setStatus(ctx context.Context, id string, status models.ResourceStatus) (*models.Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		return nil, apperrors.Persistence("Failed to update resource status. Please try again.", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to update resource status", zap.String("id", id), zap.String("status", string(status)), zap.Error(err))
		return nil, apperrors.Persistence("Failed to update resource status. Please try again.", err)
	}
	previous := res.Status
	res.Status = status

	invalidateHome(ctx, s.homeCache, s.logger)
	if previous != status {
		s.notifyOwner(ctx, res)
	}

	return res, nil
}

// notifyOwner is best effort: the status change has already been stored
func (s *moderationService) notifyOwner(ctx context.Context, res *models.Resource) {
	if s.notifier == nil || s.owners == nil {
		return
	}

	owner, err := s.owners.GetByID(ctx, res.UserID)
	if err != nil {
		s.logger.Warn("failed to load resource owner for notification", zap.String("resource_id", res.ID), zap.Error(err))
		return
	}

	err = s.notifier.ResourceModerated(ctx, tasks.ResourceModeratedPayload{
		Recipient:  owner.Email,
		OwnerName:  owner.FullName,
		ResourceID: res.ID,
		Title:      res.Title,
		Status:     string(res.Status),
		ViewURL:    s.siteURL + "/resource/" + res.PathKey(),
	})
	if err != nil {
		s.logger.Warn("failed to enqueue moderation notification", zap.String("resource_id", res.ID), zap.Error(err))
	}
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// ResourceRepository is the interface that wraps methods for Resource table data access needed for reading and lifecycle
type ResourceRepository interface {
	// Method GetByID retrieves a resource by ID.
	//
	// "id" parameter is used to retrieve a resource by ID.
	//
	// If resource with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	// Method GetBySlug retrieves a resource by slug.
	//
	// "slug" parameter is used to retrieve a resource by slug.
	//
	// If resource with such slug does not exist, the error will be returned together with "nil" value.
	GetBySlug(ctx context.Context, slug string) (*models.Resource, error)
	// Method ListByOwner retrieves the resources of a user, newest first.
	//
	// "userID" parameter is used to select the owner.
	//
	// If some error occurs during retrieval, the error will be returned together with "nil" value.
	ListByOwner(ctx context.Context, userID string) ([]models.ResourceCard, error)
	// Method IncrementDownloads adds one to the download counter in a single statement.
	//
	// "id" parameter is used to identify the resource.
	//
	// If the resource does not exist, the error will be returned.
	IncrementDownloads(ctx context.Context, id string) error
	// Method Delete deletes a resource by ID.
	//
	// "id" parameter is used to identify the resource.
	//
	// If the resource does not exist, the error will be returned.
	Delete(ctx context.Context, id string) error
}

// resourceService implements ResourceService
type resourceService struct {
	repo   ResourceRepository
	logger *zap.Logger
}

// NewResourceService creates a new resource service
func NewResourceService(repo ResourceRepository, logger *zap.Logger) *resourceService {
	return &resourceService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns a resource by id or slug when the caller may see it.
// identity is nil for anonymous callers. Hidden resources are reported as missing.
func (s *resourceService) Get(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.Resource, error) {
	res, err := s.find(ctx, strings.TrimSpace(idOrSlug))
	if err != nil {
		return nil, err
	}
	if !canView(identity, res) {
		return nil, apperrors.NotFound(msgResourceNotFound)
	}
	return res, nil
}

// ListMine returns the caller's own resources in every status
func (s *resourceService) ListMine(ctx context.Context, userID string) ([]models.ResourceCard, error) {
	cards, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list own resources", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Persistence("Failed to load your resources.", err)
	}
	return cards, nil
}

// Delete removes a pending or rejected resource of the caller
func (s *resourceService) Delete(ctx context.Context, identity models.Identity, id string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NotFound(msgResourceNotFound)
		}
		return apperrors.Persistence("Failed to delete resource. Please try again.", err)
	}

	if res.UserID != identity.UserID {
		return apperrors.Authorization("You do not have permission to delete this resource.")
	}
	if res.Status == models.StatusApproved {
		return apperrors.Authorization("Cannot delete approved resources.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to delete resource", zap.String("id", id), zap.Error(err))
		return apperrors.Persistence("Failed to delete resource. Please try again.", err)
	}

	return nil
}

// Download counts one download of a visible resource and returns its primary file
func (s *resourceService) Download(ctx context.Context, identity *models.Identity, idOrSlug string) (*models.DownloadResult, error) {
	res, err := s.Get(ctx, identity, idOrSlug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementDownloads(ctx, res.ID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to increment downloads", zap.String("id", res.ID), zap.Error(err))
		return nil, apperrors.Persistence("Failed to record download. Please try again.", err)
	}

	return &models.DownloadResult{
		Success:   true,
		Slug:      res.Slug,
		FileURL:   res.FileURL,
		Downloads: res.Downloads + 1,
	}, nil
}

// find looks the key up as an id first when it has the shape of one, then as a slug
func (s *resourceService) find(ctx context.Context, key string) (*models.Resource, error) {
	if key == "" {
		return nil, apperrors.NotFound(msgResourceNotFound)
	}

	var res *models.Resource
	var err error
	if _, parseErr := uuid.Parse(key); parseErr == nil {
		res, err = s.repo.GetByID(ctx, key)
		if err != nil && isNotFound(err) {
			res, err = s.repo.GetBySlug(ctx, key)
		}
	} else {
		res, err = s.repo.GetBySlug(ctx, key)
	}

	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to get resource", zap.String("key", key), zap.Error(err))
		return nil, apperrors.Persistence("Failed to load resource.", err)
	}
	return res, nil
}

// canView reports whether identity may see res: approved resources are public,
// others are visible to their owner and to admins
func canView(identity *models.Identity, res *models.Resource) bool {
	if res.Status == models.StatusApproved {
		return true
	}
	if identity == nil {
		return false
	}
	return identity.IsAdmin() || identity.UserID == res.UserID
}

// isNotFound reports whether a repository error means the row does not exist
func isNotFound(err error) bool {
	return err != nil && strings.HasSuffix(err.Error(), "not found")
}

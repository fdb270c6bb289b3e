package services

import (
	"context"
	"errors"
	"strings"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

const (
	msgListNotFound    = "Featured list not found."
	msgActiveListLimit = "Only 3 lists can be active at once."
	msgListSaveFailed  = "Failed to save featured list. Please try again."
)

// FeaturedListRepository is the interface that wraps methods for HomeFeaturedList table data access
type FeaturedListRepository interface {
	// Method GetAll retrieves every featured list in display order.
	//
	// If some error occurs during retrieval, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.FeaturedList, error)
	// Method GetByID retrieves a featured list by ID.
	//
	// "id" parameter is used to retrieve a featured list by ID.
	//
	// If featured list with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.FeaturedList, error)
	// Method Create inserts a list at the end of the display order.
	//
	// "list" parameter is used to create a new featured list.
	//
	// If the list is active and 3 lists are already active, models.ErrActiveListLimit will be returned.
	Create(ctx context.Context, list *models.FeaturedList) error
	// Method Update rewrites title, criteria and active flag.
	//
	// "list" parameter is used to update the featured list with the same ID.
	//
	// If activating the list would exceed the active limit, models.ErrActiveListLimit will be returned.
	Update(ctx context.Context, list *models.FeaturedList) error
	// Method Delete deletes a featured list by ID.
	//
	// If the list does not exist, the error will be returned.
	Delete(ctx context.Context, id string) error
	// Method Reorder assigns each id its position as display order, in one transaction.
	//
	// "ids" parameter is the full sequence of list ids in their new order.
	//
	// If some id does not exist, nothing is changed and the error will be returned.
	Reorder(ctx context.Context, ids []string) error
}

// featuredListService implements FeaturedListService
type featuredListService struct {
	repo      FeaturedListRepository
	validator StructValidator
	homeCache cache.Cache
	logger    *zap.Logger
}

// NewFeaturedListService creates a new featured list service
func NewFeaturedListService(repo FeaturedListRepository, validator StructValidator, homeCache cache.Cache, logger *zap.Logger) *featuredListService {
	return &featuredListService{
		repo:      repo,
		validator: validator,
		homeCache: homeCache,
		logger:    logger,
	}
}

// List returns every featured list in display order
func (s *featuredListService) List(ctx context.Context) ([]models.FeaturedList, error) {
	lists, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list featured lists", zap.Error(err))
		return nil, apperrors.Persistence("Failed to load featured lists.", err)
	}
	return lists, nil
}

// Create stores a new featured list after the existing ones
func (s *featuredListService) Create(ctx context.Context, req *models.FeaturedListRequest) (*models.FeaturedList, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	list := &models.FeaturedList{
		Title:          req.Title,
		FilterCriteria: req.FilterCriteria,
		IsActive:       req.IsActive,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, s.translate(err)
	}

	invalidateHome(ctx, s.homeCache, s.logger)
	return list, nil
}

// Update rewrites a featured list. A rejected activation leaves the stored list untouched.
func (s *featuredListService) Update(ctx context.Context, id string, req *models.FeaturedListRequest) (*models.FeaturedList, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	list, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err)
	}

	list.Title = req.Title
	list.FilterCriteria = req.FilterCriteria
	list.IsActive = req.IsActive
	if err := s.repo.Update(ctx, list); err != nil {
		return nil, s.translate(err)
	}

	invalidateHome(ctx, s.homeCache, s.logger)
	return list, nil
}

// Delete removes a featured list
func (s *featuredListService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err)
	}

	invalidateHome(ctx, s.homeCache, s.logger)
	return nil
}

// Reorder persists a new display order given as the full id sequence
func (s *featuredListService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return apperrors.Validation("List order is required.")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return apperrors.Validation("List order must contain each list once.")
		}
		seen[id] = true
	}

	if err := s.repo.Reorder(ctx, ids); err != nil {
		return s.translate(err)
	}

	invalidateHome(ctx, s.homeCache, s.logger)
	return nil
}

func (s *featuredListService) validate(req *models.FeaturedListRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return apperrors.Validation(msgTitleRequired)
	}
	req.FilterCriteria.Normalize()
	return s.validator.Struct(req)
}

func (s *featuredListService) translate(err error) error {
	switch {
	case errors.Is(err, models.ErrActiveListLimit):
		return apperrors.Validation(msgActiveListLimit)
	case isNotFound(err):
		return apperrors.NotFound(msgListNotFound)
	default:
		s.logger.Error("featured list persistence failed", zap.Error(err))
		return apperrors.Persistence(msgListSaveFailed, err)
	}
}

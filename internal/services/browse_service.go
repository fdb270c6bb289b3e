package services

import (
	"context"
	"strings"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// BrowseRepository is the interface that wraps methods for browsing approved resources
type BrowseRepository interface {
	// Method Browse retrieves one page of approved resources matching the filter.
	//
	// "filter" parameter carries the selection, sort, page and page size.
	//
	// If some error occurs during retrieval, the error will be returned together with "nil" value.
	Browse(ctx context.Context, filter models.BrowseFilter) ([]models.ResourceCard, error)
	// Method CountBrowse counts every approved resource matching the filter.
	//
	// If some error occurs during counting, the error will be returned together with "0" value.
	CountBrowse(ctx context.Context, filter models.BrowseFilter) (int, error)
}

// browseService implements BrowseService
type browseService struct {
	repo   BrowseRepository
	logger *zap.Logger
}

// NewBrowseService creates a new browse service
func NewBrowseService(repo BrowseRepository, logger *zap.Logger) *browseService {
	return &browseService{
		repo:   repo,
		logger: logger,
	}
}

// Browse returns one page of approved resources and the pagination totals.
// A page beyond the last one yields an empty list, not an error.
func (s *browseService) Browse(ctx context.Context, filter models.BrowseFilter) (*models.BrowseResult, error) {
	filter = normalizeBrowseFilter(filter)

	// Page and total do not depend on each other, so both queries run in parallel.
	errorChan := make(chan error, 2)
	cardsChan := make(chan []models.ResourceCard, 1)
	totalChan := make(chan int, 1)

	go func() {
		cards, err := s.repo.Browse(ctx, filter)
		cardsChan <- cards
		errorChan <- err
	}()

	go func() {
		total, err := s.repo.CountBrowse(ctx, filter)
		totalChan <- total
		errorChan <- err
	}()

	for range 2 {
		if err := <-errorChan; err != nil {
			s.logger.Error("failed to browse resources", zap.Error(err))
			return nil, apperrors.Persistence("Failed to load resources. Please try again.", err)
		}
	}

	cards := <-cardsChan
	if cards == nil {
		cards = []models.ResourceCard{}
	}
	total := <-totalChan

	return &models.BrowseResult{
		Resources:  cards,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

// normalizeBrowseFilter clamps paging and falls back to newest for unknown sort keys
func normalizeBrowseFilter(filter models.BrowseFilter) models.BrowseFilter {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > models.BrowsePageSize {
		filter.PageSize = models.BrowsePageSize
	}
	switch filter.Sort {
	case models.SortNewest, models.SortOldest, models.SortPopular:
	default:
		filter.Sort = models.SortNewest
	}
	return filter
}

// totalPages is ceil(total/pageSize), never less than 1
func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

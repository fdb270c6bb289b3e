package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/taxonomy"
	"go.uber.org/zap"
)

const (
	// HomeCacheKey is the cache entry holding the rendered homepage sections
	HomeCacheKey = "home:sections"
	// HomeSectionSize is the number of resources shown per homepage section
	HomeSectionSize = 6
)

// Browser returns pages of approved resources
type Browser interface {
	Browse(ctx context.Context, filter models.BrowseFilter) (*models.BrowseResult, error)
}

// ActiveListRepository is the interface that wraps the featured list read used by the homepage
type ActiveListRepository interface {
	// Method GetActive retrieves up to "limit" active lists ordered by display order.
	//
	// If some error occurs during retrieval, the error will be returned together with "nil" value.
	GetActive(ctx context.Context, limit int) ([]models.FeaturedList, error)
}

// homeService implements HomeService
type homeService struct {
	browser Browser
	lists   ActiveListRepository
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewHomeService creates a new home service
func NewHomeService(browser Browser, lists ActiveListRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *homeService {
	return &homeService{
		browser: browser,
		lists:   lists,
		cache:   c,
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns the homepage, from cache when possible.
// Cache failures are logged and the page is rebuilt from the database.
func (s *homeService) Get(ctx context.Context) (*models.HomePage, error) {
	data, ok, err := s.cache.Get(ctx, HomeCacheKey)
	if err != nil {
		s.logger.Warn("failed to read homepage cache", zap.Error(err))
	}
	if ok {
		var page models.HomePage
		if err := json.Unmarshal(data, &page); err == nil {
			return &page, nil
		}
		s.logger.Warn("discarding malformed homepage cache entry")
	}

	return s.Warm(ctx)
}

// Warm rebuilds the homepage and stores it in the cache
func (s *homeService) Warm(ctx context.Context) (*models.HomePage, error) {
	page, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(page)
	if err == nil {
		err = s.cache.Set(ctx, HomeCacheKey, data, s.ttl)
	}
	if err != nil {
		s.logger.Warn("failed to write homepage cache", zap.Error(err))
	}

	return page, nil
}

func (s *homeService) build(ctx context.Context) (*models.HomePage, error) {
	lists, err := s.lists.GetActive(ctx, models.MaxActiveFeaturedLists)
	if err != nil {
		s.logger.Error("failed to load active featured lists", zap.Error(err))
		return nil, apperrors.Persistence("Failed to load the homepage.", err)
	}

	page := &models.HomePage{
		FeaturedLists: make([]models.HomeSection, 0, len(lists)),
		GradeSections: make([]models.HomeSection, 0, len(taxonomy.GradeBands)),
	}

	for _, list := range lists {
		section, err := s.section(ctx, list.ID, list.Title, list.FilterCriteria.BrowseFilter())
		if err != nil {
			return nil, err
		}
		page.FeaturedLists = append(page.FeaturedLists, *section)
	}

	for _, band := range taxonomy.GradeBands {
		filter := models.BrowseFilter{Grades: band.Grades, Sort: models.SortNewest, Page: 1}
		section, err := s.section(ctx, band.Key, band.Title, filter)
		if err != nil {
			return nil, err
		}
		page.GradeSections = append(page.GradeSections, *section)
	}

	return page, nil
}

func (s *homeService) section(ctx context.Context, key, title string, filter models.BrowseFilter) (*models.HomeSection, error) {
	filter.PageSize = HomeSectionSize
	result, err := s.browser.Browse(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.HomeSection{
		Key:       key,
		Title:     title,
		Href:      BrowseHref(filter),
		Resources: result.Resources,
	}, nil
}

// BrowseHref returns the browse page link showing the same selection
func BrowseHref(filter models.BrowseFilter) string {
	values := url.Values{}
	set := func(key string, vs []string) {
		if len(vs) > 0 {
			values.Set(key, strings.Join(vs, ","))
		}
	}
	set("grades", filter.Grades)
	set("types", filter.ResourceTypes)
	set("topics", filter.Topics)
	set("curriculum", filter.Curriculum)

	if len(values) == 0 {
		return "/browse"
	}
	return "/browse?" + values.Encode()
}

// invalidateHome drops the cached homepage so the next read rebuilds it
func invalidateHome(ctx context.Context, c cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, HomeCacheKey); err != nil {
		logger.Warn("failed to invalidate homepage cache", zap.Error(err))
	}
}

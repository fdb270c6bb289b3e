package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBrowser records every filter and returns a single card
type fakeBrowser struct {
	mu      sync.Mutex
	filters []models.BrowseFilter
	err     error
}

func (b *fakeBrowser) Browse(ctx context.Context, filter models.BrowseFilter) (*models.BrowseResult, error) {
	b.mu.Lock()
	b.filters = append(b.filters, filter)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return &models.BrowseResult{Resources: []models.ResourceCard{{ID: "card"}}}, nil
}

// mockActiveLists is a mock implementation of ActiveListRepository
type mockActiveLists struct {
	lists     []models.FeaturedList
	err       error
	lastLimit int
	calls     int
}

func (m *mockActiveLists) GetActive(ctx context.Context, limit int) ([]models.FeaturedList, error) {
	m.calls++
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.lists, nil
}

func TestHomeService_Warm(t *testing.T) {
	browser := &fakeBrowser{}
	lists := &mockActiveLists{lists: []models.FeaturedList{
		{ID: "l-1", Title: "Ramadan Picks", FilterCriteria: models.FilterCriteria{Topics: []string{"Ramadan"}}},
	}}
	c := newMemCache()
	svc := NewHomeService(browser, lists, c, time.Minute, zap.NewNop())

	page, err := svc.Warm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.MaxActiveFeaturedLists, lists.lastLimit)

	require.Len(t, page.FeaturedLists, 1)
	assert.Equal(t, "l-1", page.FeaturedLists[0].Key)
	assert.Equal(t, "Ramadan Picks", page.FeaturedLists[0].Title)
	assert.Equal(t, "/browse?topics=Ramadan", page.FeaturedLists[0].Href)

	require.Len(t, page.GradeSections, 3)
	assert.Equal(t, "elementary", page.GradeSections[0].Key)
	assert.Equal(t, "high", page.GradeSections[2].Key)

	require.Len(t, browser.filters, 4)
	for _, f := range browser.filters {
		assert.Equal(t, HomeSectionSize, f.PageSize)
		assert.Equal(t, models.SortNewest, f.Sort)
		assert.Equal(t, 1, f.Page)
	}
	assert.Equal(t, []string{"Grade 6", "Grade 7", "Grade 8"}, browser.filters[2].Grades)

	cached, ok := c.data[HomeCacheKey]
	require.True(t, ok)
	var stored models.HomePage
	require.NoError(t, json.Unmarshal(cached, &stored))
	assert.Len(t, stored.GradeSections, 3)
}

func TestHomeService_Get(t *testing.T) {
	t.Run("served from cache", func(t *testing.T) {
		c := newMemCache()
		c.data[HomeCacheKey] = []byte(`{"featuredLists":[],"gradeSections":[{"key":"cached","title":"Cached","href":"/browse","resources":[]}]}`)
		browser := &fakeBrowser{}
		lists := &mockActiveLists{}
		svc := NewHomeService(browser, lists, c, time.Minute, zap.NewNop())

		page, err := svc.Get(context.Background())

		require.NoError(t, err)
		require.Len(t, page.GradeSections, 1)
		assert.Equal(t, "cached", page.GradeSections[0].Key)
		assert.Equal(t, 0, lists.calls)
		assert.Empty(t, browser.filters)
	})

	t.Run("miss rebuilds and stores", func(t *testing.T) {
		c := newMemCache()
		svc := NewHomeService(&fakeBrowser{}, &mockActiveLists{}, c, time.Minute, zap.NewNop())

		page, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Len(t, page.GradeSections, 3)
		assert.Empty(t, page.FeaturedLists)
		assert.Contains(t, c.data, HomeCacheKey)
	})

	t.Run("malformed entry is rebuilt", func(t *testing.T) {
		c := newMemCache()
		c.data[HomeCacheKey] = []byte(`{not json`)
		lists := &mockActiveLists{}
		svc := NewHomeService(&fakeBrowser{}, lists, c, time.Minute, zap.NewNop())

		page, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Len(t, page.GradeSections, 3)
		assert.Equal(t, 1, lists.calls)
	})

	t.Run("cache failure falls back to database", func(t *testing.T) {
		c := newMemCache()
		c.getErr = errors.New("redis down")
		svc := NewHomeService(&fakeBrowser{}, &mockActiveLists{}, c, time.Minute, zap.NewNop())

		page, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Len(t, page.GradeSections, 3)
	})
}

func TestHomeService_Warm_Errors(t *testing.T) {
	t.Run("active lists", func(t *testing.T) {
		c := newMemCache()
		svc := NewHomeService(&fakeBrowser{}, &mockActiveLists{err: errors.New("db down")}, c, time.Minute, zap.NewNop())

		_, err := svc.Warm(context.Background())

		assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
		assert.NotContains(t, c.data, HomeCacheKey)
	})

	t.Run("section query", func(t *testing.T) {
		browseErr := apperrors.Persistence("Failed to load resources. Please try again.", errors.New("db down"))
		svc := NewHomeService(&fakeBrowser{err: browseErr}, &mockActiveLists{}, newMemCache(), time.Minute, zap.NewNop())

		_, err := svc.Warm(context.Background())

		assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
	})
}

func TestBrowseHref(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.BrowseFilter
		expected string
	}{
		{name: "empty", filter: models.BrowseFilter{}, expected: "/browse"},
		{name: "grades joined", filter: models.BrowseFilter{Grades: []string{"Grade 1", "Grade 2"}}, expected: "/browse?grades=Grade+1%2CGrade+2"},
		{
			name: "several dimensions sorted by key",
			filter: models.BrowseFilter{
				ResourceTypes: []string{"Worksheet"},
				Curriculum:    []string{"Science Curriculum"},
			},
			expected: "/browse?curriculum=Science+Curriculum&types=Worksheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BrowseHref(tt.filter))
		})
	}
}

func TestInvalidateHome_NilCache(t *testing.T) {
	assert.NotPanics(t, func() {
		invalidateHome(context.Background(), nil, zap.NewNop())
	})
}

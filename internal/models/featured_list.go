package models

import (
	"errors"
	"time"
)

// MaxActiveFeaturedLists is the number of lists that may be active at the same time
const MaxActiveFeaturedLists = 3

// ErrActiveListLimit is returned when activating a list would exceed MaxActiveFeaturedLists
var ErrActiveListLimit = errors.New("active featured list limit reached")

// FilterCriteria is the stored browse selection of a featured list.
// An empty dimension puts no constraint on it.
type FilterCriteria struct {
	Grades     []string `json:"grades" validate:"dive,grade"`
	Types      []string `json:"types" validate:"dive,resource_type"`
	Topics     []string `json:"topics" validate:"dive,any_topic"`
	Curriculum []string `json:"curriculum" validate:"dive,topic_curriculum"`
}

// Normalize replaces nil dimensions with empty ones
func (c *FilterCriteria) Normalize() {
	for _, f := range []*[]string{&c.Grades, &c.Types, &c.Topics, &c.Curriculum} {
		if *f == nil {
			*f = []string{}
		}
	}
}

// BrowseFilter converts the criteria into a browse selection
func (c FilterCriteria) BrowseFilter() BrowseFilter {
	return BrowseFilter{
		Grades:        c.Grades,
		ResourceTypes: c.Types,
		Topics:        c.Topics,
		Curriculum:    c.Curriculum,
		Sort:          SortNewest,
		Page:          1,
	}
}

// FeaturedList is an admin curated preset shown on the homepage
type FeaturedList struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	FilterCriteria FilterCriteria `json:"filterCriteria"`
	IsActive       bool           `json:"isActive"`
	DisplayOrder   int            `json:"displayOrder"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FeaturedListRequest is the body of create and update calls
type FeaturedListRequest struct {
	Title          string         `json:"title"`
	FilterCriteria FilterCriteria `json:"filterCriteria"`
	IsActive       bool           `json:"isActive"`
}

// ReorderRequest carries the full list id sequence in its new order
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

package models

// Sort keys accepted by browse
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// BrowsePageSize is the number of resources per browse page
const BrowsePageSize = 12

// BrowseFilter is a browse selection over approved resources
type BrowseFilter struct {
	Query         string   `json:"q,omitempty"`
	Grades        []string `json:"grades,omitempty"`
	ResourceTypes []string `json:"types,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Curriculum    []string `json:"curriculum,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	Page          int      `json:"page,omitempty"`
	PageSize      int      `json:"-"`
}

// BrowseResult is one page of browse results
type BrowseResult struct {
	Resources  []ResourceCard `json:"resources"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

package handlers

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/resourcehub/backend/internal/models"
)

// ParseBrowseFilter reads a browse filter from query parameters.
// List parameters may be repeated, comma separated, or both; values are trimmed and deduplicated.
// Values outside the taxonomy are passed through and simply match nothing.
func ParseBrowseFilter(q url.Values) models.BrowseFilter {
	page, _ := strconv.Atoi(q.Get("page"))

	return models.BrowseFilter{
		Query:         strings.TrimSpace(q.Get("q")),
		Grades:        listParam(q, "grades"),
		ResourceTypes: listParam(q, "types"),
		Topics:        listParam(q, "topics"),
		Curriculum:    listParam(q, "curriculum"),
		Sort:          strings.TrimSpace(q.Get("sort")),
		Page:          page,
	}
}

func listParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" && !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

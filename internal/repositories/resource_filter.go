package repositories

import (
	"encoding/json"
	"strings"

	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/taxonomy"
)

// BrowseQuery is the WHERE clause, arguments and ORDER BY of a browse selection
type BrowseQuery struct {
	Where   string
	Args    []any
	OrderBy string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildBrowseQuery translates a browse selection into SQL.
//
// The approved status predicate is always the first clause and does not depend on the filter.
// Grades, types and curriculum use set overlap; a topic matches when it overlaps any topic column.
// A dimension whose selected values are all outside the vocabulary matches nothing.
func BuildBrowseQuery(filter models.BrowseFilter) BrowseQuery {
	whereClauses := []string{"status = 'approved'"}
	args := []any{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		whereClauses = append(whereClauses, "(title LIKE ? OR description LIKE ?)")
		args = append(args, pattern, pattern)
	}

	overlap := func(selected []string, valid func(string) bool, columns ...string) {
		if len(selected) == 0 {
			return
		}
		values := taxonomy.Filter(selected, valid)
		if len(values) == 0 {
			whereClauses = append(whereClauses, "1 = 0")
			return
		}

		set := jsonArray(values)
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, "JSON_OVERLAPS("+col+", CAST(? AS JSON))")
			args = append(args, set)
		}
		if len(parts) == 1 {
			whereClauses = append(whereClauses, parts[0])
		} else {
			whereClauses = append(whereClauses, "("+strings.Join(parts, " OR ")+")")
		}
	}

	overlap(filter.Grades, taxonomy.IsGrade, "target_grades")
	overlap(filter.ResourceTypes, taxonomy.IsResourceType, "resource_types")
	overlap(filter.Topics, taxonomy.IsAnyTopic, taxonomy.TopicColumns()...)
	overlap(filter.Curriculum, taxonomy.IsCurriculum, "topics_curriculum")

	return BrowseQuery{
		Where:   strings.Join(whereClauses, " AND "),
		Args:    args,
		OrderBy: orderBy(filter.Sort),
	}
}

// orderBy maps a sort key to ORDER BY; unknown keys sort newest first.
// id breaks ties so pages never overlap.
func orderBy(sort string) string {
	switch sort {
	case models.SortOldest:
		return "created_at ASC, id ASC"
	case models.SortPopular:
		return "downloads DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

func jsonArray(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// Package taxonomy holds the controlled vocabularies resources are classified with.
//
// The same vocabularies drive submission validation, browse filtering and
// featured list criteria, so every consumer must go through this package.
package taxonomy

import "slices"

// Topic category keys
const (
	CategoryQuran         = "quran"
	CategoryDuasZiyarat   = "duas_ziyarat"
	CategoryAqaid         = "aqaid"
	CategoryFiqh          = "fiqh"
	CategoryAkhlaq        = "akhlaq"
	CategoryTarikh        = "tarikh"
	CategoryPersonalities = "personalities"
	CategoryIslamicMonths = "islamic_months"
	CategoryLanguages     = "languages"
	CategoryCurriculum    = "curriculum"
	CategoryOther         = "other"
)

// Category describes one topic dimension and the column it is stored in
type Category struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Column string   `json:"-"`
	Values []string `json:"values"`
}

// TopicCategories lists every topic dimension in storage order
var TopicCategories = []Category{
	{Key: CategoryQuran, Label: "Qurʾān", Column: "topics_quran", Values: quranTopics},
	{Key: CategoryDuasZiyarat, Label: "Duʿās & Ziyārāt", Column: "topics_duas_ziyarat", Values: duasZiyaratTopics},
	{Key: CategoryAqaid, Label: "ʿAqāʾid", Column: "topics_aqaid", Values: aqaidTopics},
	{Key: CategoryFiqh, Label: "Fiqh", Column: "topics_fiqh", Values: fiqhTopics},
	{Key: CategoryAkhlaq, Label: "Akhlāq", Column: "topics_akhlaq", Values: akhlaqTopics},
	{Key: CategoryTarikh, Label: "Tārīkh", Column: "topics_tarikh", Values: tarikhTopics},
	{Key: CategoryPersonalities, Label: "Personalities", Column: "topics_personalities", Values: personalityTopics},
	{Key: CategoryIslamicMonths, Label: "Islamic Months", Column: "topics_islamic_months", Values: islamicMonthTopics},
	{Key: CategoryLanguages, Label: "Languages", Column: "topics_languages", Values: languageTopics},
	{Key: CategoryCurriculum, Label: "Curriculum", Column: "topics_curriculum", Values: curriculumTopics},
	{Key: CategoryOther, Label: "Other", Column: "topics_other", Values: otherTopics},
}

// GradeBand is a named group of grades shown as a homepage section
type GradeBand struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Grades []string `json:"grades"`
}

// GradeBands are the homepage grade sections, in display order
var GradeBands = []GradeBand{
	{
		Key:    "elementary",
		Title:  "Elementary",
		Grades: []string{"Preschool", "Kindergarten", "Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5"},
	},
	{Key: "middle", Title: "Middle School", Grades: []string{"Grade 6", "Grade 7", "Grade 8"}},
	{Key: "high", Title: "High School", Grades: []string{"Grade 9", "Grade 10", "Grade 11", "Grade 12"}},
}

// IsGrade reports whether v is a known grade
func IsGrade(v string) bool {
	return slices.Contains(TargetGrades, v)
}

// IsResourceType reports whether v is a known resource type
func IsResourceType(v string) bool {
	return slices.Contains(ResourceTypes, v)
}

// IsCreditOrganization reports whether v is a known credit organization
func IsCreditOrganization(v string) bool {
	return slices.Contains(CreditOrganizations, v)
}

// IsOccupation reports whether v is a known occupation
func IsOccupation(v string) bool {
	return slices.Contains(Occupations, v)
}

// CategoryByKey returns the topic category with the given key
func CategoryByKey(key string) (Category, bool) {
	for _, c := range TopicCategories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// IsTopic reports whether v belongs to the vocabulary of the given category
func IsTopic(categoryKey, v string) bool {
	c, ok := CategoryByKey(categoryKey)
	return ok && slices.Contains(c.Values, v)
}

// IsAnyTopic reports whether v belongs to any topic category.
// Browse filters do not know the category a selected topic came from.
func IsAnyTopic(v string) bool {
	for _, c := range TopicCategories {
		if slices.Contains(c.Values, v) {
			return true
		}
	}
	return false
}

// IsCurriculum reports whether v is a curriculum tag
func IsCurriculum(v string) bool {
	return IsTopic(CategoryCurriculum, v)
}

// TopicColumns returns the storage column of every topic category
func TopicColumns() []string {
	cols := make([]string, 0, len(TopicCategories))
	for _, c := range TopicCategories {
		cols = append(cols, c.Column)
	}
	return cols
}

// Filter returns the values of vs accepted by keep, deduplicated, in input order
func Filter(vs []string, keep func(string) bool) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if keep(v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

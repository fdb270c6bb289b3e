package models

import (
	"time"

	"github.com/resourcehub/backend/internal/taxonomy"
)

// ResourceStatus is the moderation state of a resource
type ResourceStatus string

// ResourceStatus values
const (
	StatusPending  ResourceStatus = "pending"
	StatusApproved ResourceStatus = "approved"
	StatusRejected ResourceStatus = "rejected"
)

// IsValid reports whether s is a known status
func (s ResourceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ExternalLink is a titled link attached to a resource instead of, or next to, files
type ExternalLink struct {
	Title string `json:"title" validate:"max=255"`
	URL   string `json:"url" validate:"omitempty,url"`
}

// Topics holds the topic tag set of every topic category
type Topics struct {
	Quran         []string `json:"topicsQuran" validate:"dive,topic_quran"`
	DuasZiyarat   []string `json:"topicsDuasZiyarat" validate:"dive,topic_duas_ziyarat"`
	Aqaid         []string `json:"topicsAqaid" validate:"dive,topic_aqaid"`
	Fiqh          []string `json:"topicsFiqh" validate:"dive,topic_fiqh"`
	Akhlaq        []string `json:"topicsAkhlaq" validate:"dive,topic_akhlaq"`
	Tarikh        []string `json:"topicsTarikh" validate:"dive,topic_tarikh"`
	Personalities []string `json:"topicsPersonalities" validate:"dive,topic_personalities"`
	IslamicMonths []string `json:"topicsIslamicMonths" validate:"dive,topic_islamic_months"`
	Languages     []string `json:"topicsLanguages" validate:"dive,topic_languages"`
	Curriculum    []string `json:"topicsCurriculum" validate:"dive,topic_curriculum"`
	Other         []string `json:"topicsOther" validate:"dive,topic_other"`
}

// Field returns a pointer to the tag set of the given taxonomy category key
func (t *Topics) Field(categoryKey string) *[]string {
	switch categoryKey {
	case taxonomy.CategoryQuran:
		return &t.Quran
	case taxonomy.CategoryDuasZiyarat:
		return &t.DuasZiyarat
	case taxonomy.CategoryAqaid:
		return &t.Aqaid
	case taxonomy.CategoryFiqh:
		return &t.Fiqh
	case taxonomy.CategoryAkhlaq:
		return &t.Akhlaq
	case taxonomy.CategoryTarikh:
		return &t.Tarikh
	case taxonomy.CategoryPersonalities:
		return &t.Personalities
	case taxonomy.CategoryIslamicMonths:
		return &t.IslamicMonths
	case taxonomy.CategoryLanguages:
		return &t.Languages
	case taxonomy.CategoryCurriculum:
		return &t.Curriculum
	case taxonomy.CategoryOther:
		return &t.Other
	}
	return nil
}

// Normalize replaces nil sets with empty ones so they are stored as [] rather than null
func (t *Topics) Normalize() {
	for _, c := range taxonomy.TopicCategories {
		f := t.Field(c.Key)
		if *f == nil {
			*f = []string{}
		}
	}
}

// Resource represents a submitted educational resource
type Resource struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"userId"`
	Slug               string         `json:"slug,omitempty"`
	Title              string         `json:"title"`
	ShortDescription   string         `json:"shortDescription"`
	Description        string         `json:"description,omitempty"`
	FileURL            *string        `json:"fileUrl"`
	FileSize           *int64         `json:"fileSize"`
	FileType           *string        `json:"fileType"`
	Attachments        []Attachment   `json:"attachments"`
	ExternalLinks      []ExternalLink `json:"externalLinks"`
	PreviewImageURL    string         `json:"previewImageUrl"`
	AdditionalImages   []string       `json:"additionalImages"`
	TargetGrades       []string       `json:"targetGrades"`
	ResourceTypes      []string       `json:"resourceTypes"`
	CreditOrganization string         `json:"creditOrganization,omitempty"`
	CreditOther        string         `json:"creditOther,omitempty"`
	CopyrightVerified  bool           `json:"copyrightVerified"`
	Status             ResourceStatus `json:"status"`
	Downloads          int            `json:"downloads"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	Topics
}

// PathKey returns the slug when present, otherwise the id
func (r *Resource) PathKey() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.ID
}

// SetPrimaryAttachment derives the legacy single file fields from the first attachment
func (r *Resource) SetPrimaryAttachment() {
	if len(r.Attachments) == 0 {
		r.FileURL, r.FileSize, r.FileType = nil, nil, nil
		return
	}
	primary := r.Attachments[0]
	url := primary.URL
	r.FileURL = &url
	r.FileSize = primary.Size
	if primary.Type != "" {
		fileType := primary.Type
		r.FileType = &fileType
	} else {
		r.FileType = nil
	}
}

// ResourceCard is the compact representation used in lists
type ResourceCard struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug,omitempty"`
	Title            string         `json:"title"`
	ShortDescription string         `json:"shortDescription"`
	PreviewImageURL  string         `json:"previewImageUrl"`
	ResourceTypes    []string       `json:"resourceTypes"`
	TargetGrades     []string       `json:"targetGrades"`
	Status           ResourceStatus `json:"status,omitempty"`
	Downloads        int            `json:"downloads"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// ResourceInput carries the metadata of a create or update submission.
// Files travel separately as UploadFile values.
type ResourceInput struct {
	Title              string            `json:"title"`
	ShortDescription   string            `json:"shortDescription"`
	Description        string            `json:"description"`
	PreviewImageURL    string            `json:"previewImageUrl" validate:"omitempty,url"`
	AdditionalImages   []string          `json:"additionalImages" validate:"dive,url"`
	Attachments        []AttachmentInput `json:"attachments" validate:"dive"`
	ExternalLinks      []ExternalLink    `json:"externalLinks" validate:"dive"`
	TargetGrades       []string          `json:"targetGrades" validate:"dive,grade"`
	ResourceTypes      []string          `json:"resourceTypes" validate:"dive,resource_type"`
	CreditOrganization string            `json:"creditOrganization" validate:"omitempty,credit_organization"`
	CreditOther        string            `json:"creditOther" validate:"max=255"`
	CopyrightVerified  bool              `json:"copyrightVerified"`
	Topics
}

// SubmissionResult is returned after a successful create or update
type SubmissionResult struct {
	Success  bool      `json:"success"`
	Resource *Resource `json:"resource"`
	Redirect string    `json:"redirect"`
}

// DownloadResult is returned after a download was counted
type DownloadResult struct {
	Success   bool    `json:"success"`
	Slug      string  `json:"slug,omitempty"`
	FileURL   *string `json:"fileUrl"`
	Downloads int     `json:"downloads"`
}

// Submission is a create or update request: metadata plus the files to store first
type Submission struct {
	Input            ResourceInput
	FeaturedImage    *UploadFile
	AdditionalImages []UploadFile
	Files            []UploadFile
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/cache"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/sanitize"
	"github.com/resourcehub/backend/internal/slug"
	"github.com/resourcehub/backend/internal/storage"
	"github.com/resourcehub/backend/internal/tasks"
	"github.com/resourcehub/backend/internal/taxonomy"
	"go.uber.org/zap"
)

// Messages shown to submitters
const (
	msgTitleRequired     = "Title is required."
	msgShortDescRequired = "Short description is required."
	msgImageRequired     = "Featured image is required."
	msgCopyrightRequired = "You must certify that you have the right to distribute this content."
	msgClassification    = "Please select at least one grade level and one resource type."
	msgPayloadRequired   = "Add at least one file upload or one external link."
	msgUpdateForbidden   = "You do not have permission to update this resource."
	msgCreateFailed      = "Failed to create resource. Please try again."
	msgUpdateFailed      = "Failed to update resource. Please try again."
	msgSlugExhausted     = "Could not generate a unique link for this title. Please change the title."
	msgResourceNotFound  = "Resource not found."
)

const minShortDescriptionLen = 1

// SubmissionRepository is the interface that wraps methods for Resource table data access needed by submissions
type SubmissionRepository interface {
	// Method Create inserts a new resource into the database.
	//
	// "res" parameter is used to create a new resource. ID, status, downloads and timestamps are filled in.
	//
	// If some error occurs during resource creation, the error will be returned.
	Create(ctx context.Context, res *models.Resource) error
	// Method Update rewrites the content columns of an existing resource.
	//
	// "res" parameter is used to update the resource with the same ID.
	//
	// If the resource does not exist or some error occurs during update, the error will be returned.
	Update(ctx context.Context, res *models.Resource) error
	// Method GetByID retrieves a resource by ID.
	//
	// "id" parameter is used to retrieve a resource by ID.
	//
	// If resource with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	// Method ExistsBySlug checks if a resource with such slug exists.
	//
	// "slug" parameter is used to check if a resource with such slug exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// FileUploader is the interface that wraps methods for storing submitted files
type FileUploader interface {
	// Method UploadOne stores a file for a required slot.
	//
	// If the upload fails after all retries, an UploadFailed error will be returned together with "nil" value.
	UploadOne(ctx context.Context, ownerID, bucket string, file models.UploadFile) (*models.Attachment, error)
	// Method UploadMany stores files sequentially in input order.
	//
	// "tolerant" parameter makes failed files be skipped instead of aborting the whole batch.
	UploadMany(ctx context.Context, ownerID, bucket string, files []models.UploadFile, tolerant bool) ([]models.Attachment, error)
}

// StructValidator validates tagged input structs
type StructValidator interface {
	Struct(s any) error
}

// SubmissionNotifier enqueues moderator notifications
type SubmissionNotifier interface {
	ResourceSubmitted(ctx context.Context, p tasks.ResourceSubmittedPayload) error
}

// submissionService implements SubmissionService
type submissionService struct {
	repo       SubmissionRepository
	uploader   FileUploader
	validator  StructValidator
	notifier   SubmissionNotifier
	homeCache  cache.Cache
	slugs      *slug.Generator
	logger     *zap.Logger
	adminEmail string
	siteURL    string
	now        func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	repo SubmissionRepository,
	uploader FileUploader,
	validator StructValidator,
	notifier SubmissionNotifier,
	homeCache cache.Cache,
	logger *zap.Logger,
	adminEmail string,
	siteURL string,
) *submissionService {
	return &submissionService{
		repo:       repo,
		uploader:   uploader,
		validator:  validator,
		notifier:   notifier,
		homeCache:  homeCache,
		slugs:      slug.NewGenerator(repo.ExistsBySlug),
		logger:     logger,
		adminEmail: adminEmail,
		siteURL:    siteURL,
		now:        time.Now,
	}
}

// Create validates a new resource, uploads its files and stores it as pending
func (s *submissionService) Create(ctx context.Context, identity models.Identity, sub *models.Submission) (*models.SubmissionResult, error) {
	input := &sub.Input
	retained := NormalizeAttachments(input.Attachments, s.now())
	links := normalizeLinks(input.ExternalLinks)
	input.ExternalLinks = links
	input.AdditionalImages = trimURLs(input.AdditionalImages)

	hasImage := sub.FeaturedImage != nil || strings.TrimSpace(input.PreviewImageURL) != ""
	if err := s.validate(input, hasImage, len(retained)+len(sub.Files), len(links)); err != nil {
		return nil, err
	}

	res := &models.Resource{
		UserID:           identity.UserID,
		PreviewImageURL:  strings.TrimSpace(input.PreviewImageURL),
		AdditionalImages: input.AdditionalImages,
		Attachments:      retained,
		ExternalLinks:    links,
	}
	if err := s.uploadFiles(ctx, identity.UserID, sub, res); err != nil {
		return nil, err
	}
	applyInput(res, input)

	generated, err := s.slugs.Unique(ctx, res.Title)
	if err != nil {
		return nil, s.slugError(err, msgCreateFailed)
	}
	res.Slug = generated

	if err := s.repo.Create(ctx, res); err != nil {
		s.logger.Error("failed to create resource", zap.String("user_id", identity.UserID), zap.Error(err))
		return nil, apperrors.Persistence(msgCreateFailed, err)
	}

	s.notifySubmitted(ctx, res)

	return &models.SubmissionResult{
		Success:  true,
		Resource: res,
		Redirect: "/resource/" + res.PathKey(),
	}, nil
}

// Update re-runs the submission pipeline against an existing resource.
// Only the owner of a pending resource or an admin may update it.
func (s *submissionService) Update(ctx context.Context, identity models.Identity, id string, sub *models.Submission) (*models.SubmissionResult, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to load resource for update", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(msgUpdateFailed, err)
	}

	canEdit := identity.IsAdmin() ||
		(existing.UserID == identity.UserID && existing.Status == models.StatusPending)
	if !canEdit {
		return nil, apperrors.Authorization(msgUpdateForbidden)
	}

	input := &sub.Input
	retained := NormalizeAttachments(input.Attachments, s.now())
	links := normalizeLinks(input.ExternalLinks)
	input.ExternalLinks = links
	input.AdditionalImages = trimURLs(input.AdditionalImages)

	preview := strings.TrimSpace(input.PreviewImageURL)
	if preview == "" {
		preview = existing.PreviewImageURL
	}
	hasImage := sub.FeaturedImage != nil || preview != ""
	if err := s.validate(input, hasImage, len(retained)+len(sub.Files), len(links)); err != nil {
		return nil, err
	}

	res := &models.Resource{
		ID:               existing.ID,
		UserID:           existing.UserID,
		Slug:             existing.Slug,
		Status:           existing.Status,
		Downloads:        existing.Downloads,
		CreatedAt:        existing.CreatedAt,
		PreviewImageURL:  preview,
		AdditionalImages: input.AdditionalImages,
		Attachments:      retained,
		ExternalLinks:    links,
	}
	// new files are owned by the resource owner even when an admin uploads them
	if err := s.uploadFiles(ctx, existing.UserID, sub, res); err != nil {
		return nil, err
	}
	applyInput(res, input)

	if res.Slug == "" {
		generated, err := s.slugs.Unique(ctx, res.Title)
		if err != nil {
			return nil, s.slugError(err, msgUpdateFailed)
		}
		res.Slug = generated
	}

	if err := s.repo.Update(ctx, res); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound(msgResourceNotFound)
		}
		s.logger.Error("failed to update resource", zap.String("id", id), zap.Error(err))
		return nil, apperrors.Persistence(msgUpdateFailed, err)
	}

	invalidateHome(ctx, s.homeCache, s.logger)

	return &models.SubmissionResult{
		Success:  true,
		Resource: res,
		Redirect: "/resource/" + res.PathKey(),
	}, nil
}

// validate applies the submission rules in order and returns the first violation.
// It runs before any file is uploaded.
func (s *submissionService) validate(input *models.ResourceInput, hasImage bool, attachments, links int) error {
	input.Title = strings.TrimSpace(input.Title)
	input.ShortDescription = strings.TrimSpace(input.ShortDescription)

	switch {
	case input.Title == "":
		return apperrors.Validation(msgTitleRequired)
	case len([]rune(input.ShortDescription)) < minShortDescriptionLen:
		return apperrors.Validation(msgShortDescRequired)
	case !hasImage:
		return apperrors.Validation(msgImageRequired)
	case !input.CopyrightVerified:
		return apperrors.Validation(msgCopyrightRequired)
	case len(input.TargetGrades) == 0 || len(input.ResourceTypes) == 0:
		return apperrors.Validation(msgClassification)
	case attachments == 0 && links == 0:
		return apperrors.Validation(msgPayloadRequired)
	}

	return s.validator.Struct(input)
}

// uploadFiles runs the upload slots in order: featured image, additional images, attachment files.
// Uploaded objects are left in place when a later step fails.
func (s *submissionService) uploadFiles(ctx context.Context, ownerID string, sub *models.Submission, res *models.Resource) error {
	if sub.FeaturedImage != nil {
		image, err := s.uploader.UploadOne(ctx, ownerID, storage.BucketThumbnails, *sub.FeaturedImage)
		if err != nil {
			return err
		}
		res.PreviewImageURL = image.URL
	}

	if len(sub.AdditionalImages) > 0 {
		images, err := s.uploader.UploadMany(ctx, ownerID, storage.BucketThumbnails, sub.AdditionalImages, true)
		if err != nil {
			return err
		}
		for _, image := range images {
			res.AdditionalImages = append(res.AdditionalImages, image.URL)
		}
	}

	if len(sub.Files) > 0 {
		files, err := s.uploader.UploadMany(ctx, ownerID, storage.BucketFiles, sub.Files, false)
		if err != nil {
			return err
		}
		res.Attachments = append(res.Attachments, files...)
	}

	res.SetPrimaryAttachment()
	return nil
}

func (s *submissionService) slugError(err error, persistenceMsg string) error {
	if errors.Is(err, slug.ErrExhausted) {
		return apperrors.Conflict(msgSlugExhausted, err)
	}
	s.logger.Error("failed to generate slug", zap.Error(err))
	return apperrors.Persistence(persistenceMsg, err)
}

func (s *submissionService) notifySubmitted(ctx context.Context, res *models.Resource) {
	if s.notifier == nil || s.adminEmail == "" {
		return
	}

	err := s.notifier.ResourceSubmitted(ctx, tasks.ResourceSubmittedPayload{
		Recipient:  s.adminEmail,
		ResourceID: res.ID,
		Title:      res.Title,
		Submitter:  res.UserID,
		ReviewURL:  s.siteURL + "/resource/" + res.PathKey(),
	})
	if err != nil {
		s.logger.Warn("failed to enqueue submission notification", zap.String("resource_id", res.ID), zap.Error(err))
	}
}

// applyInput copies the validated metadata onto res
func applyInput(res *models.Resource, input *models.ResourceInput) {
	res.Title = input.Title
	res.ShortDescription = input.ShortDescription
	res.Description = sanitize.Description(input.Description)
	res.TargetGrades = taxonomy.Filter(input.TargetGrades, taxonomy.IsGrade)
	res.ResourceTypes = taxonomy.Filter(input.ResourceTypes, taxonomy.IsResourceType)
	res.CreditOrganization = strings.TrimSpace(input.CreditOrganization)
	res.CreditOther = strings.TrimSpace(input.CreditOther)
	res.CopyrightVerified = input.CopyrightVerified

	for _, c := range taxonomy.TopicCategories {
		key := c.Key
		*res.Field(key) = taxonomy.Filter(*input.Field(key), func(v string) bool {
			return taxonomy.IsTopic(key, v)
		})
	}
	res.Topics.Normalize()
}

// normalizeLinks trims external links and drops the ones without a URL
func normalizeLinks(in []models.ExternalLink) []models.ExternalLink {
	out := make([]models.ExternalLink, 0, len(in))
	for _, l := range in {
		link := models.ExternalLink{Title: strings.TrimSpace(l.Title), URL: strings.TrimSpace(l.URL)}
		if link.URL == "" {
			continue
		}
		out = append(out, link)
	}
	return out
}

func trimURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/storage"
	"go.uber.org/zap"
)

const (
	uploadAttempts = 3
	uploadBackoff  = 150 * time.Millisecond
)

// attachmentUploader stores client files in object storage one at a time
type attachmentUploader struct {
	store   storage.ObjectStore
	logger  *zap.Logger
	backoff time.Duration
	now     func() time.Time
}

// NewAttachmentUploader creates a new attachment uploader
func NewAttachmentUploader(store storage.ObjectStore, logger *zap.Logger) *attachmentUploader {
	return &attachmentUploader{
		store:   store,
		logger:  logger,
		backoff: uploadBackoff,
		now:     time.Now,
	}
}

// Upload stores a single file and reports where it ended up
func (u *attachmentUploader) Upload(ctx context.Context, ownerID, bucket string, file models.UploadFile) (*models.UploadResult, error) {
	objectPath, _, err := u.put(ctx, ownerID, bucket, file)
	if err != nil {
		return nil, err
	}

	return &models.UploadResult{
		Success: true,
		URL:     u.store.PublicURL(bucket, objectPath),
		Path:    objectPath,
	}, nil
}

// UploadOne stores a file for a required slot and returns it as an attachment
func (u *attachmentUploader) UploadOne(ctx context.Context, ownerID, bucket string, file models.UploadFile) (*models.Attachment, error) {
	objectPath, size, err := u.put(ctx, ownerID, bucket, file)
	if err != nil {
		return nil, err
	}

	return &models.Attachment{
		ID:   newAttachmentID(file.Name, u.now()),
		Name: file.Name,
		URL:  u.store.PublicURL(bucket, objectPath),
		Size: &size,
		Type: file.ContentType,
	}, nil
}

// UploadMany stores files sequentially, preserving their order.
// When tolerant is set a failed file is logged and skipped, otherwise the first failure is returned.
func (u *attachmentUploader) UploadMany(ctx context.Context, ownerID, bucket string, files []models.UploadFile, tolerant bool) ([]models.Attachment, error) {
	attachments := make([]models.Attachment, 0, len(files))
	for _, file := range files {
		attachment, err := u.UploadOne(ctx, ownerID, bucket, file)
		if err != nil {
			if tolerant && apperrors.Is(err, apperrors.KindUploadFailed) {
				u.logger.Warn("skipping file after failed upload",
					zap.String("file", file.Name),
					zap.String("bucket", bucket),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}
		attachments = append(attachments, *attachment)
	}

	return attachments, nil
}

// put writes the file under one generated path, retrying transient failures with linear backoff.
// Every attempt reopens the file so a partially consumed reader is never reused.
func (u *attachmentUploader) put(ctx context.Context, ownerID, bucket string, file models.UploadFile) (string, int64, error) {
	if !storage.IsValidBucket(bucket) {
		return "", 0, apperrors.Validation("Invalid bucket.")
	}
	if file.Open == nil {
		return "", 0, apperrors.Validation("No file provided.")
	}

	objectPath := storage.GeneratePath(ownerID, file.Name, file.ContentType, u.now())

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		size, err := u.putOnce(ctx, bucket, objectPath, file)
		if err == nil {
			return objectPath, size, nil
		}
		lastErr = err

		u.logger.Warn("upload attempt failed",
			zap.String("bucket", bucket),
			zap.String("path", objectPath),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt == uploadAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", 0, apperrors.UploadFailed(ctx.Err())
		case <-time.After(time.Duration(attempt) * u.backoff):
		}
	}

	return "", 0, apperrors.UploadFailed(lastErr)
}

func (u *attachmentUploader) putOnce(ctx context.Context, bucket, objectPath string, file models.UploadFile) (int64, error) {
	r, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer r.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return u.store.Put(ctx, bucket, objectPath, r, contentType)
}

// newAttachmentID returns a UUID, or a timestamp based id when no randomness source is available
func newAttachmentID(name string, now time.Time) string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("att-%d-%06x-%s", now.UnixMilli(), rand.Uint32()&0xffffff, name)
}

// NormalizeAttachments turns client supplied attachment records into stored ones.
// Records without a URL are dropped; ids, names and sizes are filled in when missing.
func NormalizeAttachments(in []models.AttachmentInput, now time.Time) []models.Attachment {
	out := make([]models.Attachment, 0, len(in))
	for _, a := range in {
		u := strings.TrimSpace(a.URL)
		if u == "" {
			continue
		}

		name := strings.TrimSpace(a.Name)
		if name == "" {
			name = nameFromURL(u)
		}

		id := strings.TrimSpace(a.ID)
		if id == "" {
			id = newAttachmentID(name, now)
		}

		out = append(out, models.Attachment{
			ID:   id,
			Name: name,
			URL:  u,
			Size: a.Size.Value,
			Type: strings.TrimSpace(a.Type),
		})
	}
	return out
}

func nameFromURL(raw string) string {
	p := raw
	if parsed, err := url.Parse(raw); err == nil {
		p = parsed.Path
	}
	name := path.Base(p)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" || name == "." || name == "/" {
		return "Attachment"
	}
	return name
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/resourcehub/backend/internal/storage"
	"go.uber.org/zap"
)

// ReferenceChecker reports whether a stored URL is still used by a resource
type ReferenceChecker interface {
	IsURLReferenced(ctx context.Context, url string) (bool, error)
}

// cleanupService removes uploads left behind by failed submissions
type cleanupService struct {
	store  storage.ObjectStore
	refs   ReferenceChecker
	minAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewCleanupService creates a new cleanup service.
// Objects younger than minAge are never removed so in-flight submissions keep their files.
func NewCleanupService(store storage.ObjectStore, refs ReferenceChecker, minAge time.Duration, logger *zap.Logger) *cleanupService {
	return &cleanupService{
		store:  store,
		refs:   refs,
		minAge: minAge,
		logger: logger,
		now:    time.Now,
	}
}

// SweepOrphans deletes old objects no resource points to and returns how many were removed.
// Stores that cannot list their objects are skipped.
func (s *cleanupService) SweepOrphans(ctx context.Context) (int, error) {
	lister, ok := s.store.(storage.Lister)
	if !ok {
		s.logger.Info("object store does not support listing, skipping orphan sweep")
		return 0, nil
	}

	cutoff := s.now().Add(-s.minAge)
	removed := 0

	for _, bucket := range []string{storage.BucketFiles, storage.BucketThumbnails} {
		objects, err := lister.List(ctx, bucket)
		if err != nil {
			return removed, fmt.Errorf("failed to list %s: %w", bucket, err)
		}

		for _, obj := range objects {
			if obj.ModTime.After(cutoff) {
				continue
			}

			referenced, err := s.refs.IsURLReferenced(ctx, s.store.PublicURL(obj.Bucket, obj.Path))
			if err != nil {
				return removed, fmt.Errorf("failed to check references of %s/%s: %w", obj.Bucket, obj.Path, err)
			}
			if referenced {
				continue
			}

			if err := s.store.Delete(ctx, obj.Bucket, obj.Path); err != nil {
				s.logger.Warn("failed to delete orphaned object",
					zap.String("bucket", obj.Bucket),
					zap.String("path", obj.Path),
					zap.Error(err),
				)
				continue
			}
			removed++
		}
	}

	s.logger.Info("orphan sweep finished", zap.Int("removed", removed))
	return removed, nil
}

package services

import (
	"context"
	"strings"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Password length bounds; bcrypt ignores bytes past 72
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// profileService implements ProfileService
type profileService struct {
	repo      ProfileRepository
	validator StructValidator
	logger    *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo ProfileRepository, validator StructValidator, logger *zap.Logger) *profileService {
	return &profileService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// Get returns the profile of a user
func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Profile not found.")
		}
		return nil, apperrors.Persistence("Failed to load profile.", err)
	}
	return p, nil
}

// Update applies the provided fields to the user's profile
func (s *profileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	trim := func(v *string) {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
	trim(req.Username)
	trim(req.FirstName)
	trim(req.LastName)
	trim(req.Country)

	if req.Username != nil && *req.Username == "" {
		return nil, apperrors.Validation("Username is required.")
	}
	if (req.FirstName != nil && *req.FirstName == "") || (req.LastName != nil && *req.LastName == "") {
		return nil, apperrors.Validation("First and last name are required.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != p.Username {
		taken, err := s.repo.ExistsByUsername(ctx, *req.Username, userID)
		if err != nil {
			return nil, apperrors.Persistence("Failed to update profile. Please try again.", err)
		}
		if taken {
			return nil, apperrors.Conflict("Username is already taken by another user", nil)
		}
		p.Username = *req.Username
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Country != nil {
		p.Country = *req.Country
	}
	if req.Occupation != nil {
		p.Occupation = *req.Occupation
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Persistence("Failed to update profile. Please try again.", err)
	}

	return p, nil
}

// ChangePassword verifies the current password and stores a hash of the new one
func (s *profileService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.Validation("Current and new password are required.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.Validation("Passwords do not match")
	}
	if len(req.NewPassword) < minPasswordLen {
		return apperrors.Validation("Password must be at least 8 characters long")
	}
	if len(req.NewPassword) > maxPasswordLen {
		return apperrors.Validation("Password must be at most 72 bytes long")
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Validation("Current password is incorrect.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Persistence("Failed to update password. Please try again.", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("Profile not found.")
		}
		s.logger.Error("failed to update password", zap.String("user_id", userID), zap.Error(err))
		return apperrors.Persistence("Failed to update password. Please try again.", err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

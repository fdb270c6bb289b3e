package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/resourcehub/backend/internal/apperrors"
	"github.com/resourcehub/backend/internal/auth/service"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials."

// ProfileRepository is the interface that wraps methods for Profile table data access
type ProfileRepository interface {
	// Method Create inserts a new profile into the database.
	//
	// "p" parameter is used to create a new profile. ID, full name and creation time are filled in.
	//
	// If some error occurs during profile creation, the error will be returned.
	Create(ctx context.Context, p *models.Profile) error
	// Method GetByID retrieves a profile by ID.
	//
	// "id" parameter is used to retrieve a profile by ID.
	//
	// If profile with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// Method GetByEmailOrUsername retrieves a profile by email or username.
	//
	// "login" parameter is compared with both columns.
	//
	// If profile with such email or username does not exist, the error will be returned together with "nil" value.
	GetByEmailOrUsername(ctx context.Context, login string) (*models.Profile, error)
	// Method GetRole returns the role stored for a profile.
	//
	// If profile with such ID does not exist, the error will be returned together with "0" value.
	GetRole(ctx context.Context, id string) (models.Role, error)
	// Method ExistsByEmail checks if a profile with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a profile other than "exceptID" uses the username.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username, exceptID string) (bool, error)
	// Method Update writes the editable profile fields.
	//
	// If some error occurs during update, the error will be returned.
	Update(ctx context.Context, p *models.Profile) error
	// Method UpdatePasswordHash replaces the stored password hash of a profile.
	//
	// If profile with such ID does not exist, the "not found" error will be returned.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// authService implements AuthService
type authService struct {
	repo           ProfileRepository
	validator      StructValidator
	tokenGenerator *service.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo ProfileRepository, validator StructValidator, tokenGenerator *service.TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		repo:           repo,
		validator:      validator,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Register creates a contributor account and signs it in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Country = strings.TrimSpace(req.Country)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkRegisterCredentials(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Country:      req.Country,
		Occupation:   req.Occupation,
		Role:         models.RoleUser,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, apperrors.Persistence("Failed to create account. Please try again.", err)
	}

	return s.issue(profile.ID, profile.Role)
}

// Login authenticates by email or username
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, apperrors.Validation("Login and password are required.")
	}

	profile, err := s.repo.GetByEmailOrUsername(ctx, login)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Unauthenticated(msgInvalidCredentials)
		}
		return nil, apperrors.Persistence("Failed to sign in. Please try again.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthenticated(msgInvalidCredentials)
	}

	return s.issue(profile.ID, profile.Role)
}

// Refresh exchanges a refresh token for a new pair.
// The role is read from the profile so promotions take effect without signing in again.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, err := s.tokenGenerator.ValidateRefreshToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid or expired refresh token.")
	}

	role, err := s.repo.GetRole(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Unauthenticated("Invalid or expired refresh token.")
		}
		return nil, apperrors.Persistence("Failed to refresh session. Please try again.", err)
	}

	return s.issue(userID, role)
}

func (s *authService) issue(userID string, role models.Role) (*models.TokenPair, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(userID, int(role))
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// checkRegisterCredentials checks email and username uniqueness.
// The checks are independent, so they run in parallel.
func (s *authService) checkRegisterCredentials(ctx context.Context, email, username string) error {
	errorChan := make(chan error, 2)

	go func() {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			errorChan <- apperrors.Persistence("Failed to create account. Please try again.", err)
			return
		}
		if exists {
			errorChan <- apperrors.Conflict("Email is already registered.", nil)
			return
		}
		errorChan <- nil
	}()

	go func() {
		exists, err := s.repo.ExistsByUsername(ctx, username, "")
		if err != nil {
			errorChan <- apperrors.Persistence("Failed to create account. Please try again.", err)
			return
		}
		if exists {
			errorChan <- apperrors.Conflict("Username is already taken.", nil)
			return
		}
		errorChan <- nil
	}()

	var firstErr error
	for range 2 {
		if err := <-errorChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resourcehub/backend/internal/models"
	"go.uber.org/zap"
)

// profileRepository implements ProfileRepository
type profileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *profileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

const profileColumns = "id, email, username, password_hash, first_name, last_name, full_name, country, occupation, role, created_at"

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var country, occupation sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Username,
		&p.PasswordHash,
		&p.FirstName,
		&p.LastName,
		&p.FullName,
		&country,
		&occupation,
		&p.Role,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Country = country.String
	p.Occupation = occupation.String

	return &p, nil
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// Create inserts a new profile into the database
func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == 0 {
		p.Role = models.RoleUser
	}
	p.FullName = fullName(p.FirstName, p.LastName)
	p.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO profiles (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, profileColumns)

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Email, p.Username, p.PasswordHash, p.FirstName, p.LastName, p.FullName,
		nullString(p.Country), nullString(p.Occupation), p.Role, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create profile", zap.Error(err))
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = ? LIMIT 1`, profileColumns)

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		r.logger.Error("failed to get profile by id", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return p, nil
}

// GetByEmailOrUsername retrieves a profile by email or username
func (r *profileRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE email = ? OR username = ?
		LIMIT 1
	`, profileColumns)

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, login, login))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		r.logger.Error("failed to get profile by email or username", zap.Error(err), zap.String("login", login))
		return nil, fmt.Errorf("failed to get profile by email or username: %w", err)
	}

	return p, nil
}

// GetRole returns the role stored for a profile
func (r *profileRepository) GetRole(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRowContext(ctx, `SELECT role FROM profiles WHERE id = ?`, id).Scan(&role)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("profile not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get profile role: %w", err)
	}

	return role, nil
}

// ExistsByEmail checks if a profile exists with the given email
func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByUsername checks if a profile other than exceptID uses the username.
// An empty exceptID checks every profile.
func (r *profileRepository) ExistsByUsername(ctx context.Context, username, exceptID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE username = ? AND id <> ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username, exceptID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// Update writes the editable profile fields
func (r *profileRepository) Update(ctx context.Context, p *models.Profile) error {
	p.FullName = fullName(p.FirstName, p.LastName)

	query := `
		UPDATE profiles
		SET username = ?, first_name = ?, last_name = ?, full_name = ?, country = ?, occupation = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		p.Username, p.FirstName, p.LastName, p.FullName, nullString(p.Country), nullString(p.Occupation), p.ID,
	)
	if err != nil {
		r.logger.Error("failed to update profile", zap.Error(err), zap.String("id", p.ID))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// UpdatePasswordHash replaces the password hash of a profile
func (r *profileRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE profiles SET password_hash = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.Error("failed to update password hash", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}

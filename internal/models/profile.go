package models

import "time"

type Role int

// Role constants
const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

// Profile represents a registered contributor
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	FullName     string    `json:"fullName"`
	Country      string    `json:"country,omitempty"`
	Occupation   string    `json:"occupation,omitempty"`
	Role         Role      `json:"role"` // 1=User, 2=Admin
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller of an operation
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the caller has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role >= RoleAdmin
}

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Username   string `json:"username" validate:"required,min=3,max=50"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Country    string `json:"country" validate:"max=100"`
	Occupation string `json:"occupation" validate:"omitempty,occupation"`
}

// LoginRequest represents a sign-in request; Login is an email or a username
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenPair is returned by register, login and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Username   *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	FirstName  *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName   *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Occupation *string `json:"occupation,omitempty" validate:"omitempty,occupation"`
}

// ChangePasswordRequest represents a password change of the signed in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry, refreshExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// AccessTokenExpiry returns the lifetime of access tokens
func (tg *TokenGenerator) AccessTokenExpiry() time.Duration {
	return tg.accessTokenExpiry
}

// RefreshTokenExpiry returns the lifetime of refresh tokens
func (tg *TokenGenerator) RefreshTokenExpiry() time.Duration {
	return tg.refreshTokenExpiry
}

// GenerateTokens generates both access and refresh tokens for a user.
// Access token contains user_id and role, refresh token only the subject:
// the role is read again from the profile store on refresh.
func (tg *TokenGenerator) GenerateTokens(userID string, role int) (string, string, error) {
	accessToken, err := tg.generateAccessToken(userID, role)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := tg.generateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// generateAccessToken creates an access token with userID and role in payload
func (tg *TokenGenerator) generateAccessToken(userID string, role int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(tg.accessTokenExpiry).Unix(),
		"iat":     now.Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// generateRefreshToken creates a refresh token for userID; jti keeps tokens issued in the same second distinct
func (tg *TokenGenerator) generateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"jti":  uuid.NewString(),
		"exp":  now.Add(tg.refreshTokenExpiry).Unix(),
		"iat":  now.Unix(),
		"type": "refresh",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// parse verifies the signature and expiry of tokenString and checks its type claim
func (tg *TokenGenerator) parse(tokenString, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != expectedType {
		return nil, fmt.Errorf("invalid token type: expected %s", expectedType)
	}

	return claims, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (string, int, error) {
	claims, err := tg.parse(tokenString, "access")
	if err != nil {
		return "", 0, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", 0, fmt.Errorf("user_id not found in token")
	}

	// JWT claims decode numbers as float64
	role, ok := claims["role"].(float64)
	if !ok {
		return "", 0, fmt.Errorf("role not found in token")
	}

	return userID, int(role), nil
}

// ValidateRefreshToken validates a refresh token and returns its subject
func (tg *TokenGenerator) ValidateRefreshToken(tokenString string) (string, error) {
	claims, err := tg.parse(tokenString, "refresh")
	if err != nil {
		return "", err
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("subject not found in token")
	}

	return userID, nil
}

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// JWTManager issues and verifies signed access tokens. The rest of the
// system consumes only the verified (user, role) pair from the claims.
type JWTManager struct {
	secret    string
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    secret,
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// Claims extends jwt.RegisteredClaims with our custom fields.
type Claims struct {
	jwt.RegisteredClaims

	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	SessionID string `json:"session_id,omitempty"`
}

// GenerateAccessToken creates a signed access token for the user.
func (j *JWTManager) GenerateAccessToken(user *models.User, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:    user.ID.String(),
		Role:      string(user.Role),
		TokenType: models.TokenTypeAccess,
		SessionID: sessionID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// AccessTTL returns the configured access token lifetime.
func (j *JWTManager) AccessTTL() time.Duration {
	return j.accessTTL
}

// ValidateAccessToken parses and validates an access token.
func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != models.TokenTypeAccess {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}

// GenerateRefreshToken creates a cryptographically random opaque refresh
// token. Refresh tokens are stored server-side in the sessions table, not
// signed.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, RefreshTokenKeySize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSecret creates a random signing secret for development use.
func GenerateSecret() string {
	b := make([]byte, TokenKeySize)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

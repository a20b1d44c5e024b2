package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanmedia/pelican/pkg/auth"
	"github.com/pelicanmedia/pelican/pkg/models"
)

func testUser(role models.UserRole) *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Token Holder",
		Email: "holder@example.com",
		Role:  role,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := auth.NewJWTManager("secret", "pelican-test", 15*time.Minute)
	user := testUser(models.RoleAdmin)
	sessionID := uuid.New()

	token, err := manager.GenerateAccessToken(user, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, string(models.RoleAdmin), claims.Role)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, "pelican-test", claims.Issuer)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuing := auth.NewJWTManager("secret-a", "pelican-test", 15*time.Minute)
	verifying := auth.NewJWTManager("secret-b", "pelican-test", 15*time.Minute)

	token, err := issuing.GenerateAccessToken(testUser(models.RoleUser), uuid.New())
	require.NoError(t, err)

	_, err = verifying.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager := auth.NewJWTManager("secret", "pelican-test", -time.Minute)

	token, err := manager.GenerateAccessToken(testUser(models.RoleUser), uuid.New())
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	manager := auth.NewJWTManager("secret", "pelican-test", 15*time.Minute)

	_, err := manager.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	first, err := auth.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := auth.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/internal/user/repository"
	"github.com/pelicanmedia/pelican/pkg/auth"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// AuthService handles registration, login, token refresh, and logout.
// Sessions back the refresh tokens; access tokens are stateless JWTs.
type AuthService struct {
	repo       repository.Repository
	jwtManager *auth.JWTManager
	refreshTTL time.Duration
	eventBus   interfaces.EventBus
	logger     interfaces.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	repo repository.Repository,
	jwtManager *auth.JWTManager,
	refreshTTL time.Duration,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtManager: jwtManager,
		refreshTTL: refreshTTL,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Register creates a new user account. Email uniqueness is enforced by the
// store, so a concurrent duplicate signup surfaces as a Conflict either way.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, errors.BadRequest("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.BadRequest("a valid email is required")
	}
	if len(password) < 8 {
		return nil, errors.BadRequest("password must be at least 8 characters")
	}

	user := &models.User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, "failed to hash password", err)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.UserCreated, user.ID.String(), map[string]interface{}{
		"email": user.Email,
	}))

	return user, nil
}

// Login verifies the credentials and opens a session. A wrong email and a
// wrong password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.AuthTokens, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, errors.Unauthorized("invalid email or password")
		}
		return nil, nil, err
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, nil, errors.Unauthorized("invalid email or password")
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.UserLoggedIn, user.ID.String(), nil))

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The old
// session is replaced, so each refresh token works exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session",
				interfaces.String("session_id", session.ID.String()), interfaces.Error(err))
		}
		return nil, errors.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token")
	}

	if err := s.repo.DeleteSession(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout revokes the session behind the refresh token. Revoking an unknown
// token succeeds; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	return s.repo.DeleteSession(ctx, session.ID)
}

// GetUser returns the account behind an access token's subject.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// CleanupExpiredSessions removes sessions past their expiry. Run it
// periodically; live traffic never depends on it.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, "failed to generate refresh token", err)
	}

	session := &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user, session.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, "failed to sign access token", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtManager.AccessTTL().Seconds()),
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

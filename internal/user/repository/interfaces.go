package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines persistence operations for refresh sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Repository aggregates user and session persistence.
type Repository interface {
	UserRepository
	SessionRepository
}

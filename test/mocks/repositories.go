// Package mocks holds testify mocks for the repository and storage
// interfaces used in service tests.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// MockCatalogRepository mocks the catalog repository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CreateMedia(ctx context.Context, media *models.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockCatalogRepository) UpdateMedia(ctx context.Context, media *models.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Media), args.Error(1)
}

func (m *MockCatalogRepository) CountMedia(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) SearchMedia(ctx context.Context, query string) ([]*models.Media, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Media), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogRepository) ListMediaByCategories(ctx context.Context, categories []string, limit int) ([]*models.Media, error) {
	args := m.Called(ctx, categories, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Media), args.Error(1)
}

// MockViewingRepository mocks the viewing repository.
type MockViewingRepository struct {
	mock.Mock
}

func (m *MockViewingRepository) CreateHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockViewingRepository) HistoryEntryExists(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, mediaID)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewingRepository) ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryEntry), args.Error(1)
}

func (m *MockViewingRepository) DeleteHistoryEntry(ctx context.Context, userID, mediaID uuid.UUID) error {
	args := m.Called(ctx, userID, mediaID)
	return args.Error(0)
}

func (m *MockViewingRepository) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockViewingRepository) UpsertProgress(ctx context.Context, progress *models.WatchProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockViewingRepository) GetProgress(ctx context.Context, userID, mediaID uuid.UUID) (*models.WatchProgress, error) {
	args := m.Called(ctx, userID, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchProgress), args.Error(1)
}

func (m *MockViewingRepository) CreateWatchlistEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockViewingRepository) DeleteWatchlistEntry(ctx context.Context, userID, mediaID uuid.UUID) error {
	args := m.Called(ctx, userID, mediaID)
	return args.Error(0)
}

func (m *MockViewingRepository) ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*models.WatchlistEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WatchlistEntry), args.Error(1)
}

// MockUserRepository mocks the user and session repository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUserRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockUserRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage mocks the object store.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Store(ctx context.Context, key, contentType string, reader io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, reader)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

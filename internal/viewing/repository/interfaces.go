package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// HistoryRepository defines persistence operations for the watch-history log.
type HistoryRepository interface {
	CreateHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error
	HistoryEntryExists(ctx context.Context, userID, mediaID uuid.UUID) (bool, error)
	ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, userID, mediaID uuid.UUID) error
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

// ProgressRepository defines persistence operations for watch progress.
type ProgressRepository interface {
	UpsertProgress(ctx context.Context, progress *models.WatchProgress) error
	GetProgress(ctx context.Context, userID, mediaID uuid.UUID) (*models.WatchProgress, error)
}

// WatchlistRepository defines persistence operations for the watchlist.
type WatchlistRepository interface {
	CreateWatchlistEntry(ctx context.Context, entry *models.WatchlistEntry) error
	DeleteWatchlistEntry(ctx context.Context, userID, mediaID uuid.UUID) error
	ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*models.WatchlistEntry, error)
}

// Repository aggregates all viewing-state repositories.
type Repository interface {
	HistoryRepository
	ProgressRepository
	WatchlistRepository
}

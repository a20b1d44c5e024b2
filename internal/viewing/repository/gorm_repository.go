package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed viewing repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

// History operations

func (r *GormRepository) CreateHistoryEntry(ctx context.Context, entry *models.HistoryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

func (r *GormRepository) HistoryEntryExists(ctx context.Context, userID, mediaID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.HistoryEntry{}).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check history entry existence: %w", err)
	}
	return count > 0, nil
}

// ListHistory returns the user's history newest first, each entry preloaded
// with its media item. Entries whose media was deleted carry a nil Media.
func (r *GormRepository) ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	if err := r.db.WithContext(ctx).
		Preload("Media").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// DeleteHistoryEntry removes one entry for the pair. When several entries
// exist the newest one is removed.
func (r *GormRepository) DeleteHistoryEntry(ctx context.Context, userID, mediaID uuid.UUID) error {
	var entry models.HistoryEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Order("watched_at DESC").
		First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NotFound("history entry not found")
		}
		return fmt.Errorf("failed to find history entry: %w", err)
	}

	if err := r.db.WithContext(ctx).Delete(&models.HistoryEntry{}, "id = ?", entry.ID).Error; err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (r *GormRepository) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.HistoryEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Progress operations

// UpsertProgress creates the row if absent and overwrites the position if
// present. The unique (user_id, media_id) index makes the conflict target;
// concurrent writers race and the last write wins.
func (r *GormRepository) UpsertProgress(ctx context.Context, progress *models.WatchProgress) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "media_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
		}).
		Create(progress).Error; err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *GormRepository) GetProgress(ctx context.Context, userID, mediaID uuid.UUID) (*models.WatchProgress, error) {
	var progress models.WatchProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&progress).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("no progress recorded")
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

// Watchlist operations

// CreateWatchlistEntry inserts the bookmark. The unique (user_id, media_id)
// index rejects duplicates; the resulting conflict is surfaced as a typed
// Conflict error and is the only "already exists" check.
func (r *GormRepository) CreateWatchlistEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.Conflict("already in watchlist")
		}
		return fmt.Errorf("failed to create watchlist entry: %w", err)
	}
	return nil
}

// DeleteWatchlistEntry removes the bookmark if present. Removing an absent
// pair is a no-op, not an error.
func (r *GormRepository) DeleteWatchlistEntry(ctx context.Context, userID, mediaID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Delete(&models.WatchlistEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	return nil
}

func (r *GormRepository) ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*models.WatchlistEntry, error) {
	var entries []*models.WatchlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Media").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, nil
}

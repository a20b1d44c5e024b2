package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one row of a user's watch history. The history is an
// append-only log: multiple entries per (user, media) pair are allowed from
// the explicit add path. Only the access-recorder path deduplicates.
type HistoryEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_history_user_media"`
	MediaID   uuid.UUID `json:"media_id" gorm:"type:uuid;not null;index:idx_history_user_media"`
	Media     *Media    `json:"media,omitempty" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
	WatchedAt time.Time `json:"watched_at" gorm:"not null;index"`
}

// TableName overrides the default pluralization.
func (HistoryEntry) TableName() string { return "history_entries" }

// WatchProgress holds the last known playback position for a (user, media)
// pair. At most one row per pair, enforced by the unique composite index;
// writes are upserts and the last write wins.
type WatchProgress struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_media"`
	MediaID   uuid.UUID `json:"media_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_media"`
	Media     *Media    `json:"-" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
	Position  float64   `json:"timestamp" gorm:"not null"` // playback offset in seconds
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default pluralization.
func (WatchProgress) TableName() string { return "watch_progress" }

// WatchlistEntry marks a bookmark. At most one row per (user, media) pair;
// the unique composite index is the single authority for "already exists".
type WatchlistEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_media"`
	MediaID   uuid.UUID `json:"media_id" gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_media"`
	Media     *Media    `json:"media,omitempty" gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default pluralization.
func (WatchlistEntry) TableName() string { return "watchlist_entries" }

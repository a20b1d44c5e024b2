package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogrepo "github.com/pelicanmedia/pelican/internal/catalog/repository"
	"github.com/pelicanmedia/pelican/internal/viewing/repository"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// RecommendationLimit caps how many items a recommendation query returns.
const RecommendationLimit = 10

// NoHistoryMessage is returned when the user has nothing to recommend from.
const NoHistoryMessage = "No watch history available"

// RecommendationResult is the outcome of a recommendation query.
type RecommendationResult struct {
	Message         string          `json:"message,omitempty"`
	Recommendations []*models.Media `json:"recommendations"`
}

// ViewingService manages per-user watch history, watch progress, the
// watchlist, and category-based recommendations.
type ViewingService struct {
	repo     repository.Repository
	catalog  catalogrepo.Repository
	eventBus interfaces.EventBus
	logger   interfaces.Logger
}

// NewViewingService creates a new viewing service.
func NewViewingService(
	repo repository.Repository,
	catalog catalogrepo.Repository,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *ViewingService {
	return &ViewingService{
		repo:     repo,
		catalog:  catalog,
		eventBus: eventBus,
		logger:   logger,
	}
}

// History

// ListHistory returns the user's watch history, newest first, with each entry
// resolved to its media item. Entries whose media item no longer exists are
// skipped rather than surfaced as an error.
func (s *ViewingService) ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.HistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Media == nil {
			continue
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// RecordHistory appends a history entry for the pair. The history is an
// append-only log: repeated calls create repeated entries.
func (s *ViewingService) RecordHistory(ctx context.Context, userID, mediaID uuid.UUID) (*models.HistoryEntry, error) {
	if _, err := s.catalog.GetMedia(ctx, mediaID); err != nil {
		return nil, err
	}

	entry := &models.HistoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		MediaID:   mediaID,
		WatchedAt: time.Now(),
	}
	if err := s.repo.CreateHistoryEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordOnAccess records a history entry when a signed-in user fetches a
// media detail, at most once per (user, media) pair. Unlike RecordHistory it
// deduplicates, so passive viewing never piles up entries.
func (s *ViewingService) RecordOnAccess(ctx context.Context, userID, mediaID uuid.UUID) error {
	exists, err := s.repo.HistoryEntryExists(ctx, userID, mediaID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	entry := &models.HistoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		MediaID:   mediaID,
		WatchedAt: time.Now(),
	}
	return s.repo.CreateHistoryEntry(ctx, entry)
}

// DeleteHistoryEntry removes one entry for the pair.
func (s *ViewingService) DeleteHistoryEntry(ctx context.Context, userID, mediaID uuid.UUID) error {
	return s.repo.DeleteHistoryEntry(ctx, userID, mediaID)
}

// ClearHistory removes every history entry for the user.
func (s *ViewingService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearHistory(ctx, userID); err != nil {
		return err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.HistoryCleared, userID.String(), nil))
	return nil
}

// Progress

// SaveProgress upserts the last playback position for the pair. Concurrent
// saves race and the last write wins; progress is informational.
func (s *ViewingService) SaveProgress(ctx context.Context, userID, mediaID uuid.UUID, position float64) error {
	if position < 0 {
		return errors.BadRequest("timestamp must be non-negative")
	}

	progress := &models.WatchProgress{
		ID:       uuid.New(),
		UserID:   userID,
		MediaID:  mediaID,
		Position: position,
	}
	return s.repo.UpsertProgress(ctx, progress)
}

// GetProgress returns the saved position for the pair, defaulting to 0 when
// nothing has been saved. Players depend on the zero default to start from
// the beginning; an absent row is never an error.
func (s *ViewingService) GetProgress(ctx context.Context, userID, mediaID uuid.UUID) (float64, error) {
	progress, err := s.repo.GetProgress(ctx, userID, mediaID)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return progress.Position, nil
}

// Watchlist

// AddToWatchlist bookmarks the media for the user. A duplicate add surfaces
// the store's uniqueness conflict as a Conflict error.
func (s *ViewingService) AddToWatchlist(ctx context.Context, userID, mediaID uuid.UUID) (*models.WatchlistEntry, error) {
	if _, err := s.catalog.GetMedia(ctx, mediaID); err != nil {
		return nil, err
	}

	entry := &models.WatchlistEntry{
		ID:      uuid.New(),
		UserID:  userID,
		MediaID: mediaID,
	}
	if err := s.repo.CreateWatchlistEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveFromWatchlist removes the bookmark; removing an absent pair succeeds.
func (s *ViewingService) RemoveFromWatchlist(ctx context.Context, userID, mediaID uuid.UUID) error {
	return s.repo.DeleteWatchlistEntry(ctx, userID, mediaID)
}

// ListWatchlist returns the user's bookmarks with their media items.
func (s *ViewingService) ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*models.WatchlistEntry, error) {
	entries, err := s.repo.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*models.WatchlistEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Media == nil {
			continue
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// Recommendations

// Recommend suggests media from the categories the user has watched. The
// algorithm is deliberately naive: distinct categories from the resolved
// history feed one catalog query capped at RecommendationLimit, in the
// store's natural order. History entries whose media item was deleted are
// skipped.
func (s *ViewingService) Recommend(ctx context.Context, userID uuid.UUID) (*RecommendationResult, error) {
	entries, err := s.repo.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, entry := range entries {
		if entry.Media == nil {
			continue
		}
		if _, ok := seen[entry.Media.Category]; ok {
			continue
		}
		seen[entry.Media.Category] = struct{}{}
		categories = append(categories, entry.Media.Category)
	}

	if len(categories) == 0 {
		return &RecommendationResult{
			Message:         NoHistoryMessage,
			Recommendations: []*models.Media{},
		}, nil
	}

	items, err := s.catalog.ListMediaByCategories(ctx, categories, RecommendationLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Media{}
	}

	return &RecommendationResult{Recommendations: items}, nil
}

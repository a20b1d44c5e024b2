package service

import (
	"context"
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/internal/catalog/repository"
	"github.com/pelicanmedia/pelican/internal/storage"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// AccessRecorder records that a user accessed a media item. Failures are the
// recorder's problem; catalog reads never fail because of it.
type AccessRecorder interface {
	RecordOnAccess(ctx context.Context, userID, mediaID uuid.UUID) error
}

// UploadInput carries the metadata and content of a new media item.
type UploadInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Filename    string
	ContentType string
	Content     io.Reader
	UploadedBy  uuid.UUID
}

// UpdateInput carries a partial metadata update. Nil fields are left
// untouched. A non-nil Content replaces the stored binary.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string
	TagsSet     bool
	Filename    string
	ContentType string
	Content     io.Reader
}

// CatalogService manages the media catalog: metadata in the database, the
// binaries in object storage.
type CatalogService struct {
	repo     repository.Repository
	store    storage.ObjectStorage
	recorder AccessRecorder
	eventBus interfaces.EventBus
	logger   interfaces.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	repo repository.Repository,
	store storage.ObjectStorage,
	eventBus interfaces.EventBus,
	logger interfaces.Logger,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SetAccessRecorder wires the recorder after construction. The catalog and
// viewing services reference each other, so one side is wired late.
func (s *CatalogService) SetAccessRecorder(recorder AccessRecorder) {
	s.recorder = recorder
}

// ParseTags interprets the tags of a multipart form. Clients send either
// repeated form values or a single JSON-encoded array; a value that looks
// like JSON but does not parse is a bad request.
func ParseTags(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var tags []string
		if err := json.Unmarshal([]byte(values[0]), &tags); err != nil {
			return nil, errors.BadRequest("tags must be a JSON array of strings")
		}
		return tags, nil
	}
	return values, nil
}

// ListMedia returns one page of the catalog, newest first, with the total
// count for pagination.
func (s *CatalogService) ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, int64, error) {
	items, err := s.repo.ListMedia(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountMedia(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SearchMedia matches the query against title, category, and description,
// case-insensitively. An empty query returns an empty result.
func (s *CatalogService) SearchMedia(ctx context.Context, query string) ([]*models.Media, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Media{}, nil
	}
	return s.repo.SearchMedia(ctx, query)
}

// GetMedia returns one media item. When a signed-in viewer is given, the
// access is recorded in their history as a side effect; a recording failure
// is logged and the read still succeeds.
func (s *CatalogService) GetMedia(ctx context.Context, mediaID uuid.UUID, viewerID *uuid.UUID) (*models.Media, error) {
	media, err := s.repo.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if viewerID != nil && s.recorder != nil {
		if err := s.recorder.RecordOnAccess(ctx, *viewerID, mediaID); err != nil {
			s.logger.Warn("failed to record media access",
				interfaces.String("user_id", viewerID.String()),
				interfaces.String("media_id", mediaID.String()),
				interfaces.Error(err))
		}
	}

	return media, nil
}

// ListCategories returns the distinct categories present in the catalog.
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// Upload stores the binary in object storage and creates the catalog record.
// The media type is derived from the uploaded content type.
func (s *CatalogService) Upload(ctx context.Context, input UploadInput) (*models.Media, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest("title is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, errors.BadRequest("category is required")
	}
	if input.Content == nil {
		return nil, errors.BadRequest("media file is required")
	}

	id := uuid.New()
	key := objectKey(id, input.Filename)

	url, err := s.store.Store(ctx, key, input.ContentType, input.Content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInternal, "failed to store media file", err)
	}

	media := &models.Media{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		MediaURL:    url,
		Type:        mediaTypeFor(input.ContentType),
		UploadedBy:  input.UploadedBy,
	}
	if err := s.repo.CreateMedia(ctx, media); err != nil {
		// The record failed, so the stored object is orphaned. Best effort
		// cleanup keeps the bucket tidy.
		if delErr := s.store.Delete(ctx, url); delErr != nil {
			s.logger.Warn("failed to clean up orphaned media object",
				interfaces.String("url", url), interfaces.Error(delErr))
		}
		return nil, err
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaCreated, media.ID.String(), map[string]interface{}{
		"title":    media.Title,
		"category": media.Category,
	}))

	return media, nil
}

// Update applies a partial metadata update and, when new content is given,
// replaces the stored binary. The old object is deleted best effort.
func (s *CatalogService) Update(ctx context.Context, mediaID uuid.UUID, input UpdateInput) (*models.Media, error) {
	media, err := s.repo.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, errors.BadRequest("title must not be empty")
		}
		media.Title = *input.Title
	}
	if input.Description != nil {
		media.Description = *input.Description
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, errors.BadRequest("category must not be empty")
		}
		media.Category = *input.Category
	}
	if input.TagsSet {
		media.Tags = input.Tags
	}

	oldURL := ""
	if input.Content != nil {
		key := objectKey(media.ID, input.Filename)
		url, err := s.store.Store(ctx, key, input.ContentType, input.Content)
		if err != nil {
			return nil, errors.Wrap(errors.ErrorTypeInternal, "failed to store media file", err)
		}
		oldURL = media.MediaURL
		media.MediaURL = url
		media.Type = mediaTypeFor(input.ContentType)
	}

	if err := s.repo.UpdateMedia(ctx, media); err != nil {
		return nil, err
	}

	if oldURL != "" && oldURL != media.MediaURL {
		if err := s.store.Delete(ctx, oldURL); err != nil {
			s.logger.Warn("failed to delete replaced media object",
				interfaces.String("url", oldURL), interfaces.Error(err))
		}
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaUpdated, media.ID.String(), nil))

	return media, nil
}

// Delete removes the catalog record and then the stored binary. A storage
// failure after the record is gone is logged, not surfaced; the catalog is
// the source of truth.
func (s *CatalogService) Delete(ctx context.Context, mediaID uuid.UUID) error {
	media, err := s.repo.GetMedia(ctx, mediaID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMedia(ctx, mediaID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, media.MediaURL); err != nil {
		s.logger.Warn("failed to delete media object",
			interfaces.String("url", media.MediaURL), interfaces.Error(err))
	}

	s.eventBus.PublishAsync(ctx, events.NewAggregateEvent(events.MediaDeleted, mediaID.String(), nil))

	return nil
}

func mediaTypeFor(contentType string) models.MediaType {
	if strings.HasPrefix(contentType, "audio/") {
		return models.MediaTypeAudio
	}
	return models.MediaTypeVideo
}

func objectKey(id uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return id.String() + ext
}

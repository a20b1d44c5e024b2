package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/models"
)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed catalog repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateMedia(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (r *GormRepository) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound("media not found")
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return &media, nil
}

func (r *GormRepository) UpdateMedia(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
		return fmt.Errorf("failed to update media: %w", err)
	}
	return nil
}

func (r *GormRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete media: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("media not found")
	}
	return nil
}

func (r *GormRepository) ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, error) {
	var items []*models.Media
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return items, nil
}

func (r *GormRepository) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Media{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return count, nil
}

// SearchMedia matches the query as a case-insensitive substring of title,
// category, or description. No relevance scoring.
func (r *GormRepository) SearchMedia(ctx context.Context, query string) ([]*models.Media, error) {
	var items []*models.Media
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR category ILIKE ? OR description ILIKE ?", pattern, pattern, pattern).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to search media: %w", err)
	}
	return items, nil
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *GormRepository) ListMediaByCategories(ctx context.Context, categories []string, limit int) ([]*models.Media, error) {
	var items []*models.Media
	if len(categories) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).
		Where("category IN ?", categories).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list media by categories: %w", err)
	}
	return items, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// Repository defines persistence operations for the media catalog.
type Repository interface {
	CreateMedia(ctx context.Context, media *models.Media) error
	GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error)
	UpdateMedia(ctx context.Context, media *models.Media) error
	DeleteMedia(ctx context.Context, id uuid.UUID) error
	ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, error)
	CountMedia(ctx context.Context) (int64, error)
	SearchMedia(ctx context.Context, query string) ([]*models.Media, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListMediaByCategories(ctx context.Context, categories []string, limit int) ([]*models.Media, error)
}

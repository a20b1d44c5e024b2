package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType represents the kind of playable asset. It is derived from the
// upload result at ingestion time, never supplied by the client.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// Media represents one playable asset in the catalog. The binary itself lives
// in object storage; only the durable URL is stored here.
type Media struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string    `json:"title" gorm:"not null;index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Tags        []string  `json:"tags,omitempty" gorm:"serializer:json;type:text"`
	MediaURL    string    `json:"media_url" gorm:"not null"`
	Type        MediaType `json:"type" gorm:"type:varchar(20);not null"`
	UploadedBy  uuid.UUID `json:"uploaded_by,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name ("media" does not pluralize cleanly).
func (Media) TableName() string { return "media" }

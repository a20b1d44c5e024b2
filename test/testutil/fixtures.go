package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/pkg/models"
)

// CreateTestUser creates a regular user fixture with a known password
// ("password123").
func CreateTestUser(name, email string) *models.User {
	user := &models.User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := user.SetPassword("password123"); err != nil {
		panic(fmt.Sprintf("failed to hash fixture password: %v", err))
	}
	return user
}

// CreateTestAdmin creates an admin user fixture.
func CreateTestAdmin(name, email string) *models.User {
	user := CreateTestUser(name, email)
	user.Role = models.RoleAdmin
	return user
}

// CreateTestMedia creates a media fixture in the given category.
func CreateTestMedia(title, category string, uploadedBy uuid.UUID) *models.Media {
	return &models.Media{
		ID:          uuid.New(),
		Title:       title,
		Description: "test media item",
		Category:    category,
		Tags:        []string{"test"},
		MediaURL:    fmt.Sprintf("http://localhost:8080/static/%s.mp4", uuid.NewString()),
		Type:        models.MediaTypeVideo,
		UploadedBy:  uploadedBy,
	}
}

// CreateTestSession creates a session fixture valid for a day.
func CreateTestSession(userID uuid.UUID) *models.Session {
	return &models.Session{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
}

// CreateTestHistoryEntry creates a history fixture watched now.
func CreateTestHistoryEntry(userID, mediaID uuid.UUID) *models.HistoryEntry {
	return &models.HistoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		MediaID:   mediaID,
		WatchedAt: time.Now(),
	}
}

// Package storage holds the object-storage collaborator. Media binaries are
// stored here; the catalog keeps only the durable URL the store returns.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrKeyNotFound is returned when the referenced object does not exist.
var ErrKeyNotFound = errors.New("storage: key not found")

// ObjectStorage accepts a binary upload and returns a durable URL, and
// deletes objects by the URL it previously returned.
type ObjectStorage interface {
	// Store writes the object under key and returns its durable URL.
	Store(ctx context.Context, key, contentType string, reader io.Reader) (string, error)

	// Delete removes the object identified by a URL returned from Store.
	Delete(ctx context.Context, url string) error
}

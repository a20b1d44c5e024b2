package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStorage stores objects on the local filesystem and serves them under a
// configured public base URL. Used for development deployments.
type LocalStorage struct {
	basePath  string
	publicURL string
	logger    *zap.Logger
}

// NewLocalStorage creates a local-disk object store rooted at basePath.
func NewLocalStorage(basePath, publicURL string, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Store writes the object under key and returns its public URL.
func (s *LocalStorage) Store(ctx context.Context, key, contentType string, reader io.Reader) (string, error) {
	path := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// Delete removes the object behind a URL previously returned by Store.
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		return fmt.Errorf("url %q is not served by this store", url)
	}

	path := filepath.Join(s.basePath, filepath.Clean(key))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

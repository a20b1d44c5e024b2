package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pelicanmedia/pelican/internal/storage"
)

func TestLocalStorage_StoreAndDelete(t *testing.T) {
	base := t.TempDir()
	store, err := storage.NewLocalStorage(base, "http://localhost:8080/static/", zap.NewNop())
	require.NoError(t, err)

	url, err := store.Store(context.Background(), "clip.mp4", "video/mp4", strings.NewReader("video bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/clip.mp4", url)

	data, err := os.ReadFile(filepath.Join(base, "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(base, "clip.mp4"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteMissingKey(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/static", zap.NewNop())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "http://localhost:8080/static/never-stored.mp4")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestLocalStorage_DeleteForeignURL(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/static", zap.NewNop())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "https://elsewhere.example.com/clip.mp4")
	assert.Error(t, err)
}

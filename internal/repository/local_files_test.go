package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/givebridge/givebridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFilesSaveOpenRoundTrip(t *testing.T) {
	repo, err := NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("\x89PNG fake image bytes")

	path, err := repo.Save(ctx, payload, "photo.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/"), "path %q must start with /uploads/", path)
	assert.True(t, strings.HasSuffix(path, ".png"), "path %q must keep the extension", path)

	filename := strings.TrimPrefix(path, "/uploads/")
	data, contentType, err := repo.Open(ctx, filename)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", contentType)
}

func TestLocalFilesUniqueNames(t *testing.T) {
	repo, err := NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		path, err := repo.Save(ctx, []byte("x"), "same-name.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.False(t, seen[path], "duplicate stored path %q", path)
		seen[path] = true
	}
}

func TestLocalFilesOpenMissing(t *testing.T) {
	repo, err := NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)

	_, _, err = repo.Open(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalFilesOpenRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewLocalFileRepository(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	// A secret outside the upload dir must not be reachable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("secret"), 0o644))

	for _, name := range []string{"../secret.txt", "..", ".hidden", "a/b.jpg", ""} {
		_, _, err := repo.Open(context.Background(), name)
		assert.ErrorIs(t, err, domain.ErrNotFound, "name %q", name)
	}
}

func TestLocalFilesCreatesDirIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalFileRepository(dir)
	require.NoError(t, err)

	// Second construction over the existing directory must succeed.
	_, err = NewLocalFileRepository(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/givebridge/givebridge/internal/domain"
	"github.com/oklog/ulid/v2"
)

// LocalFileRepository implements domain.FileRepository on the local
// filesystem. Stored names are ULIDs, so concurrent saves cannot collide.
type LocalFileRepository struct {
	dir string
}

// NewLocalFileRepository creates the upload directory if it does not exist
// yet. Creation is idempotent: an existing directory is not an error.
func NewLocalFileRepository(dir string) (*LocalFileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalFileRepository{dir: dir}, nil
}

// Save writes the blob under a fresh ULID name, keeping the original file
// extension, and returns "/uploads/<filename>".
func (r *LocalFileRepository) Save(ctx context.Context, data []byte, originalFilename string, contentType string) (string, error) {
	filename := newStoredFilename(originalFilename)

	if err := os.WriteFile(filepath.Join(r.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return "/uploads/" + filename, nil
}

// Open reads a stored file back. Path traversal in the requested name is
// rejected as not found.
func (r *LocalFileRepository) Open(ctx context.Context, filename string) ([]byte, string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return nil, "", domain.ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(r.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to read image file: %w", err)
	}

	return data, detectContentType(filename, data), nil
}

// newStoredFilename builds "<ulid><ext>" from the original name. ULIDs come
// from crypto/rand, which keeps the collision probability negligible even
// for concurrent uploads.
func newStoredFilename(originalFilename string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return id + ext
}

func detectContentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

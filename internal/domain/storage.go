package domain

import (
	"context"
)

// FileRepository defines the interface for image blob storage
type FileRepository interface {
	// Save persists an uploaded blob under a collision-resistant name that
	// keeps the original file extension, and returns the stable relative
	// path "/uploads/<filename>".
	Save(ctx context.Context, data []byte, originalFilename string, contentType string) (string, error)

	// Open returns the stored bytes and content type for a filename
	// previously assigned by Save. Returns ErrNotFound for unknown files.
	Open(ctx context.Context, filename string) ([]byte, string, error)
}

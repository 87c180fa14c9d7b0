package storage

import (
	"context"
	"errors"
	"io"

	"nirvana/internal/model"

	"github.com/google/uuid"
)

var ErrPhotoNotFound = errors.New("photo not found")

// Storage persists program photos. The backends are alternative persistence
// strategies for the same logical attribute: local and s3 keep bytes outside
// the database and fill ProgramPhoto.Key, while the database backend embeds
// the bytes on the program row and fills ProgramPhoto.Data.
type Storage interface {
	// Store saves an uploaded photo and returns the photo reference to
	// persist on the program row.
	Store(ctx context.Context, programID uuid.UUID, filename string, contentType string, content io.Reader) (model.ProgramPhoto, error)

	// Open returns the photo bytes for a storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the photo behind a storage key.
	Remove(ctx context.Context, key string) error
}

type StorageType string

const (
	StorageTypeLocal    StorageType = "local"
	StorageTypeDatabase StorageType = "database"
	StorageTypeS3       StorageType = "s3"
)

package storage

import (
	"context"
	"fmt"
	"io"

	"nirvana/internal/model"

	"github.com/google/uuid"
)

// DatabaseStorage embeds photo bytes on the program row itself. There is no
// storage key: the returned ProgramPhoto carries the raw bytes and the
// repository persists them alongside the program.
type DatabaseStorage struct{}

func NewDatabaseStorage() *DatabaseStorage {
	return &DatabaseStorage{}
}

func (ds *DatabaseStorage) Store(ctx context.Context, programID uuid.UUID, filename string, contentType string, content io.Reader) (model.ProgramPhoto, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return model.ProgramPhoto{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return model.ProgramPhoto{
		Data:     data,
		Filename: sanitizeFilename(filename),
		MimeType: contentType,
	}, nil
}

func (ds *DatabaseStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// Blob photos are served straight from the program row.
	return nil, ErrPhotoNotFound
}

func (ds *DatabaseStorage) Remove(ctx context.Context, key string) error {
	// Clearing the row columns is the delete.
	return nil
}

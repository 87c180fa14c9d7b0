package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nirvana/internal/model"

	"github.com/google/uuid"
)

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure base path exists
	if err := os.MkdirAll(filepath.Join(basePath, "programs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (ls *LocalStorage) Store(ctx context.Context, programID uuid.UUID, filename string, contentType string, content io.Reader) (model.ProgramPhoto, error) {
	safeName := sanitizeFilename(filename)
	key := fmt.Sprintf("programs/%s_%s", programID.String(), safeName)

	fullPath := filepath.Join(ls.basePath, key)

	file, err := os.Create(fullPath)
	if err != nil {
		return model.ProgramPhoto{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(fullPath) // Cleanup on error
		return model.ProgramPhoto{}, fmt.Errorf("failed to write file: %w", err)
	}

	return model.ProgramPhoto{
		Key:      key,
		Filename: safeName,
		MimeType: contentType,
	}, nil
}

func (ls *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (ls *LocalStorage) Remove(ctx context.Context, key string) error {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve joins the key onto the base path and rejects traversal outside it.
func (ls *LocalStorage) resolve(key string) (string, error) {
	fullPath := filepath.Join(ls.basePath, key)

	absBasePath, err := filepath.Abs(ls.basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	// A bare prefix check would admit siblings like base+"-x"; require the
	// separator so only paths inside the base match.
	if !strings.HasPrefix(absFullPath, absBasePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: path traversal detected")
	}
	return fullPath, nil
}

func sanitizeFilename(filename string) string {
	// Remove path separators and other dangerous characters
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", "..", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(filename)
}

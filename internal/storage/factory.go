package storage

import (
	"fmt"

	"nirvana/internal/config"
)

// New selects the photo persistence strategy from configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeLocal:
		basePath := cfg.LocalPath
		if basePath == "" {
			basePath = "./uploads" // Default path
		}
		return NewLocalStorage(basePath)

	case StorageTypeDatabase:
		return NewDatabaseStorage(), nil

	case StorageTypeS3:
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("S3 storage requires STORAGE_S3_BUCKET and STORAGE_S3_REGION environment variables")
		}
		return NewS3Storage(cfg.S3Bucket, cfg.S3Region)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

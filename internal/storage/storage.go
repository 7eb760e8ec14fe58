package storage

import (
	"context"
	"fmt"

	"github.com/pageza/pantry/backend/config"
)

// Store persists recipe images under a key and tells where they are served
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var (
	_ Store = (*LocalStore)(nil)
	_ Store = (*S3Store)(nil)
)

// FromConfig builds the store selected by STORAGE_BACKEND
func FromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3: %w", err)
		}
		return NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.Region, s3cfg.Endpoint), nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
}

package storage

import (
	"context"
	"fmt"

	"github.com/retail/backoffice/internal/application/catalog"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewImageStorage builds the backend selected by cfg.Driver. S3 buckets are created when missing.
func NewImageStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (catalog.ImageStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalImageStorage(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case "s3":
		s, err := NewS3ImageStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

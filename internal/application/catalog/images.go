package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// Image folders per owning entity
const (
	ImageFolderCategories    = "categories"
	ImageFolderSubcategories = "subcategories"
	ImageFolderProducts      = "products"
)

// ErrUploadsDisabled is returned when no image storage is configured
var ErrUploadsDisabled = shared.NewDomainError("INVALID_FILE", "Image uploads are not configured")

// ImageProcessor decodes an uploaded image and re-encodes it in the stored format
type ImageProcessor interface {
	Normalize(r io.Reader) ([]byte, error)
}

// ImageStorage persists encoded images and serves them under a public URL
type ImageStorage interface {
	// Put writes data under key and returns its public URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object behind a URL previously returned by Put
	Delete(ctx context.Context, url string) error
}

// ImageUploader normalizes and stores entity images
type ImageUploader struct {
	processor ImageProcessor
	storage   ImageStorage
	logger    *zap.Logger
}

// NewImageUploader creates a new ImageUploader
func NewImageUploader(processor ImageProcessor, storage ImageStorage, logger *zap.Logger) *ImageUploader {
	return &ImageUploader{processor: processor, storage: storage, logger: logger}
}

// Upload stores the image under <folder>/<slug>-<uuid>.jpg and returns its public URL
func (u *ImageUploader) Upload(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	if u == nil {
		return "", ErrUploadsDisabled
	}
	data, err := u.processor.Normalize(r)
	if err != nil {
		return "", err
	}
	slug := shared.Slugify(name)
	if slug == "" {
		slug = "image"
	}
	key := fmt.Sprintf("%s/%s-%s.jpg", folder, slug, uuid.NewString())
	return u.storage.Put(ctx, key, data, "image/jpeg")
}

// Discard removes a stored image. Failures are logged and swallowed.
func (u *ImageUploader) Discard(ctx context.Context, url string) {
	if u == nil || url == "" {
		return
	}
	if err := u.storage.Delete(ctx, url); err != nil {
		u.logger.Warn("Failed to remove stored image", zap.String("url", url), zap.Error(err))
	}
}

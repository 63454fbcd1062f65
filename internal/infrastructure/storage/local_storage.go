package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retail/backoffice/internal/application/catalog"
	"go.uber.org/zap"
)

var _ catalog.ImageStorage = (*LocalImageStorage)(nil)

// LocalImageStorage writes images below a directory that the HTTP server exposes at baseURL
type LocalImageStorage struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalImageStorage creates the upload directory if needed
func NewLocalImageStorage(dir, baseURL string, logger *zap.Logger) (*LocalImageStorage, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalImageStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("local_storage"),
	}, nil
}

// Dir returns the root directory served under the public base URL
func (s *LocalImageStorage) Dir() string {
	return s.dir
}

// Put writes data to <dir>/<key> and returns its public URL
func (s *LocalImageStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image folder: %w", err)
	}

	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	s.logger.Debug("Image stored", zap.String("path", path), zap.Int("size", len(data)))
	return s.baseURL + "/" + filepath.ToSlash(key), nil
}

// Delete removes the file behind url. Missing files and foreign URLs are not errors.
func (s *LocalImageStorage) Delete(_ context.Context, url string) error {
	key, ok := keyFromURL(s.baseURL, url)
	if !ok {
		return nil
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// writeAtomic writes to a temp file next to path and renames it into place.
// The temp file is removed on any failure.
func writeAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *LocalImageStorage) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

package storage

import (
	"context"
	"testing"

	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewImageStorage(t *testing.T) {
	s, err := NewImageStorage(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalImageStorage{}, s)

	_, err = NewImageStorage(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown storage driver")
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalImageStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalImageStorage(dir, "http://localhost:8080/uploads/", zap.NewNop())
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "products/remera-1.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/products/remera-1.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "products", "remera-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, s.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "products", "remera-1.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), url))
}

func TestLocalImageStorage_FailedWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalImageStorage(dir, "/uploads", nil)
	require.NoError(t, err)

	// a non-empty directory at the target path makes the final rename fail
	target := filepath.Join(dir, "products", "taken.jpg")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "inner"), 0o755))

	_, err = s.Put(context.Background(), "products/taken.jpg", []byte("jpeg"), "image/jpeg")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "products"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "taken.jpg", entries[0].Name())
}

func TestLocalImageStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalImageStorage(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	for _, key := range []string{"", "../secret.jpg", "/etc/passwd", "a/../../b.jpg"} {
		_, err := s.Put(context.Background(), key, []byte("x"), "image/jpeg")
		assert.Error(t, err, key)
	}
}

func TestLocalImageStorage_IgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalImageStorage(dir, "/uploads", nil)
	require.NoError(t, err)

	outside := filepath.Join(dir, "keep.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.NoError(t, s.Delete(context.Background(), "https://cdn.example.com/keep.jpg"))
	assert.NoError(t, s.Delete(context.Background(), "/uploads/../keep.jpg"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url string
		key string
		ok  bool
	}{
		{"https://cdn.test/img/categories/a.jpg", "categories/a.jpg", true},
		{"https://cdn.test/img/categories/a.jpg?v=2", "categories/a.jpg", true},
		{"https://cdn.test/img/", "", false},
		{"https://other.test/img/a.jpg", "", false},
		{"https://cdn.test/img/../a.jpg", "", false},
	}
	for _, tt := range tests {
		key, ok := keyFromURL("https://cdn.test/img", tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.key, key, tt.url)
	}
}

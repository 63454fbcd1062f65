package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: uint8(x * 255 / w)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestJPEGProcessor_Normalize(t *testing.T) {
	p := NewJPEGProcessor(85, 0)

	out, err := p.Normalize(bytes.NewReader(pngFixture(t, 16, 8)))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestJPEGProcessor_JPEGPassesThroughDecode(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, image.NewGray(image.Rect(0, 0, 4, 4)), nil))

	out, err := NewJPEGProcessor(0, 0).Normalize(&src)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestJPEGProcessor_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		limit int64
	}{
		{"empty", nil, 0},
		{"text", []byte("definitely not an image"), 0},
		{"pdf", []byte("%PDF-1.4\n..."), 0},
		{"truncated png", pngFixture(t, 8, 8)[:40], 0},
		{"over the size limit", pngFixture(t, 32, 32), 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJPEGProcessor(80, tt.limit).Normalize(bytes.NewReader(tt.input))
			require.Error(t, err)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "INVALID_FILE", de.Code)
		})
	}
}

func TestSniff(t *testing.T) {
	assert.Equal(t, "image/tiff", sniff([]byte("II*\x00rest")))
	assert.Equal(t, "image/tiff", sniff([]byte("MM\x00*rest")))
	assert.Equal(t, "image/png", sniff(pngFixture(t, 1, 1)))
	assert.True(t, strings.HasPrefix(sniff([]byte("hello")), "text/plain"))
}

package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/retail/backoffice/internal/application/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultJPEGQuality = 80

var _ catalog.ImageProcessor = (*JPEGProcessor)(nil)

// acceptedTypes are the sniffed content types an upload may have
var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// ErrUnsupportedImage is returned for uploads that are not a decodable image
var ErrUnsupportedImage = shared.NewDomainError("INVALID_FILE", "Unsupported image format; use JPEG, PNG, GIF, WEBP, BMP or TIFF")

// JPEGProcessor re-encodes every accepted image format to JPEG
type JPEGProcessor struct {
	quality int
	maxSize int64
}

// NewJPEGProcessor creates a processor. maxSize <= 0 disables the size check.
func NewJPEGProcessor(quality int, maxSize int64) *JPEGProcessor {
	if quality < 1 || quality > 100 {
		quality = defaultJPEGQuality
	}
	return &JPEGProcessor{quality: quality, maxSize: maxSize}
}

// Normalize decodes r and returns the JPEG encoding
func (p *JPEGProcessor) Normalize(r io.Reader) ([]byte, error) {
	if p.maxSize > 0 {
		r = io.LimitReader(r, p.maxSize+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Image file is empty")
	}
	if p.maxSize > 0 && int64(len(raw)) > p.maxSize {
		return nil, shared.NewDomainErrorf("INVALID_FILE", "Image exceeds the %d byte limit", p.maxSize)
	}
	if !acceptedTypes[sniff(raw)] {
		return nil, ErrUnsupportedImage
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, flatten(img), &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// sniff detects the content type, covering the TIFF signatures http.DetectContentType does not know
func sniff(raw []byte) string {
	if len(raw) >= 4 {
		head := string(raw[:4])
		if head == "II*\x00" || head == "MM\x00*" {
			return "image/tiff"
		}
	}
	return http.DetectContentType(raw)
}

// flatten paints transparent pixels onto white so they don't turn black in JPEG
func flatten(img image.Image) image.Image {
	if _, opaque := img.(*image.YCbCr); opaque {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

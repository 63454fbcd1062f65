package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// ImageFormField is the multipart field carrying uploaded images
const ImageFormField = "image"

// openImage returns the uploaded image, answering the error response itself on failure
func (h *BaseHandler) openImage(c *gin.Context, maxSize int64) (multipart.File, bool) {
	header, err := c.FormFile(ImageFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "Image exceeds the upload limit")
			return nil, false
		}
		h.Error(c, http.StatusBadRequest, "INVALID_FILE", "Multipart field \"image\" is required")
		return nil, false
	}
	if maxSize > 0 && header.Size > maxSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "Image exceeds the upload limit")
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_FILE", "Uploaded image could not be read")
		return nil, false
	}
	return file, true
}

// withImage opens the upload, hands it to fn and closes it afterwards
func (h *BaseHandler) withImage(c *gin.Context, maxSize int64, fn func(r io.Reader) (any, error)) {
	file, ok := h.openImage(c, maxSize)
	if !ok {
		return
	}
	defer file.Close()

	result, err := fn(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

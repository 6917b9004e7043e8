package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/changcookbook/backend/internal/service"
)

type UploadHandler struct {
	images *service.ImageService
}

func NewUploadHandler(images *service.ImageService) *UploadHandler {
	return &UploadHandler{images: images}
}

// Upload receives one image as the "image" form field. The "kind" field
// ("recipe" or "chef") picks the storage prefix and size limit.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image upload is required"})
		return
	}
	defer file.Close()

	kind := c.PostForm("kind")
	if kind == "" {
		kind = "recipe"
	}

	url, err := h.images.Upload(c.Request.Context(), kind, file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the size limit"})
		case errors.Is(err, service.ErrBadImageType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		case errors.Is(err, service.ErrUnknownImageKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be recipe or chef"})
		default:
			log.Printf("image upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize caps one image upload.
const MaxUploadSize = 8 << 20

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true, ".svg": true,
}

// UploadImage handles POST /api/uploads
// It saves a product or slider image under UploadDir and returns the src to
// store on the image, served from /uploads.
func (h *Handlers) UploadImage(c *gin.Context) {
	if h.UploadDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Uploads are disabled"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)

	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	// 2. Only images
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	// 3. Create the upload directory if it doesn't exist
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.internalError(c, "Failed to prepare upload directory", err)
		return
	}

	// 4. Save under a unique name (uuid + extension)
	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
		h.internalError(c, "Failed to save file", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"src": "/uploads/" + name})
}

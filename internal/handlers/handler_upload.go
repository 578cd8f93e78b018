package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/orghub/orghub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// uploadHandler stores multipart uploads (receipts, event images, minutes
// documents) on disk and hands back the path they are served from.
type uploadHandler struct {
	uploadDir string
}

func newUploadHandler(uploadDir string) *uploadHandler {
	return &uploadHandler{uploadDir: uploadDir}
}

// registerUploadRoutes registers the upload route.
func registerUploadRoutes(rg *gin.RouterGroup, uploadDir string) {
	h := newUploadHandler(uploadDir)
	rg.POST("/uploads", h.upload)
}

var allowedUploadExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

// upload godoc
// @Summary Upload a file
// @Description Stores a document or image and returns the URL path it is served from
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "File to upload"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing or unsupported file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to store file"
// @Security BearerAuth
// @Router /uploads [post]
func (h *uploadHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'file' form field is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: " + ext})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	// Stored under a fresh name so uploads can never collide or traverse.
	storedName := uuid.NewString() + ext
	dst := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Error("Failed to save uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	logger.Info("File uploaded", slog.String("stored_name", storedName), slog.Int64("size", file.Size))
	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + storedName})
}

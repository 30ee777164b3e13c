package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"customer-backend/services"
	"customer-backend/utils"
)

const maxUploadSize = 5 * 1024 * 1024

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadController struct {
	Storage services.ObjectStorage
	Log     zerolog.Logger
}

func NewUploadController(storage services.ObjectStorage, logger zerolog.Logger) *UploadController {
	return &UploadController{
		Storage: storage,
		Log:     logger.With().Str("component", "UploadController").Logger(),
	}
}

// Upload handles POST /api/upload: a single multipart image, at most 5MB,
// stored under customer-photos/ with a random name.
func (ctrl *UploadController) Upload(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		utils.JSONError(c, http.StatusBadRequest, "Invalid file type")
		return
	}

	if fileHeader.Size > maxUploadSize {
		utils.JSONError(c, http.StatusBadRequest, "File size too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectPath := "customer-photos/" + uuid.New().String() + ext

	url, err := ctrl.Storage.Save(c.Request.Context(), objectPath, contentType, file)
	if err != nil {
		ctrl.Log.Error().Err(err).Str("object", objectPath).Msg("Failed to store upload.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"message": "File uploaded successfully",
	})
}

// Delete handles DELETE /api/upload?path=.
func (ctrl *UploadController) Delete(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		utils.JSONError(c, http.StatusBadRequest, "File path not provided")
		return
	}

	if err := ctrl.Storage.Delete(c.Request.Context(), path); err != nil {
		ctrl.Log.Error().Err(err).Str("object", path).Msg("Failed to delete upload.")
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete file from storage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

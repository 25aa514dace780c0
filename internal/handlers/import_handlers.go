package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"leadscout/internal/caching"
	"leadscout/internal/common"
	"leadscout/internal/models"
	"leadscout/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxUploadBytes caps spreadsheet uploads at 20MB.
const maxUploadBytes = 20 << 20

// importRateLimit is the number of import requests allowed per client IP
// within importRateWindow.
const (
	importRateLimit  = 10
	importRateWindow = time.Minute
)

// ImportHandlers handles spreadsheet upload, preview and commit requests
type ImportHandlers struct {
	importService services.ImportService
	cacheService  caching.CacheService
}

// NewImportHandlers creates a new import handlers instance
func NewImportHandlers(importService services.ImportService, cacheService caching.CacheService) *ImportHandlers {
	return &ImportHandlers{
		importService: importService,
		cacheService:  cacheService,
	}
}

// checkImportRate rate-limits import endpoints per client IP. A Redis
// failure lets the request through rather than blocking imports.
func (h *ImportHandlers) checkImportRate(c echo.Context) (bool, error) {
	limited, err := h.cacheService.IsRateLimited(c.Request().Context(), "import:"+c.RealIP(), importRateLimit, importRateWindow)
	if err != nil {
		log.Printf("Rate limit check failed, allowing request: %v", err)
		return false, nil
	}
	if limited {
		return true, common.SendRateLimitedError(c)
	}
	return false, nil
}

// PreviewImport accepts a multipart file upload, decodes it and returns the
// detected columns plus a few sample rows for the mapping screen.
func (h *ImportHandlers) PreviewImport(c echo.Context) error {
	ctx := c.Request().Context()

	if limited, err := h.checkImportRate(c); limited {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "A spreadsheet file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return common.SendClientError(c, fmt.Sprintf("File exceeds the %dMB upload limit", maxUploadBytes>>20))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	preview, err := h.importService.Preview(ctx, fileHeader.Filename, src)
	if err != nil {
		// Decode problems are the caller's to fix; a storage outage is ours.
		if errors.Is(err, services.ErrStorageFailure) {
			log.Printf("Failed to stage upload in object storage: %v", err)
			return common.SendServerError(c, "Failed to store uploaded file")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, preview)
}

// CommitImportRequest represents the import commit request payload
type CommitImportRequest struct {
	UploadID    string               `json:"upload_id" validate:"required"`
	DatasetName string               `json:"dataset_name"`
	DatasetID   *string              `json:"dataset_id"`
	Mode        string               `json:"mode" validate:"required"`
	Mapping     models.ColumnMapping `json:"mapping"`
}

// CommitImport maps the staged rows with the confirmed column mapping and
// persists them into a new or existing dataset.
func (h *ImportHandlers) CommitImport(c echo.Context) error {
	ctx := c.Request().Context()

	if limited, err := h.checkImportRate(c); limited {
		return err
	}

	var req CommitImportRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	uploadID, err := common.ValidateUUID(req.UploadID, "upload_id")
	if err != nil {
		return common.SendValidationError(c, "upload_id", err.Error())
	}

	var targetDataset *uuid.UUID
	if req.DatasetID != nil && *req.DatasetID != "" {
		datasetID, err := common.ValidateUUID(*req.DatasetID, "dataset_id")
		if err != nil {
			return common.SendValidationError(c, "dataset_id", err.Error())
		}
		targetDataset = &datasetID
	}

	result, err := h.importService.Commit(ctx, uploadID, req.DatasetName, targetDataset, req.Mode, req.Mapping)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUploadNotFound):
			return common.SendNotFoundError(c, "Upload")
		case errors.Is(err, services.ErrImportInProgress):
			return common.SendConflictError(c, "An import for this upload is already running")
		case errors.Is(err, services.ErrInvalidImportMode):
			return common.SendValidationError(c, "mode", "Mode must be replace or append")
		default:
			return common.SendServerError(c, "Failed to commit import")
		}
	}

	return c.JSON(http.StatusCreated, result)
}

// GetImportProgress reports chunked-mapping progress for an in-flight commit.
func (h *ImportHandlers) GetImportProgress(c echo.Context) error {
	ctx := c.Request().Context()

	uploadID, err := common.ValidateUUID(c.Param("id"), "upload_id")
	if err != nil {
		return common.SendValidationError(c, "upload_id", err.Error())
	}

	value, err := h.cacheService.GetString(ctx, services.ImportProgressKey(uploadID))
	if err != nil {
		return common.SendServerError(c, "Failed to read import progress")
	}
	if value == "" {
		return common.SendNotFoundError(c, "Import progress")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"upload_id": uploadID.String(),
		"progress":  value,
	})
}

package handlers

import (
	"net/http"

	"leadscout/internal/common"
	"leadscout/internal/models"
	"leadscout/internal/services"

	"github.com/labstack/echo/v4"
)

// ExportHandlers handles filtered XLSX export requests
type ExportHandlers struct {
	exportService services.ExportService
}

// NewExportHandlers creates a new export handlers instance
func NewExportHandlers(exportService services.ExportService) *ExportHandlers {
	return &ExportHandlers{
		exportService: exportService,
	}
}

// ExportBusinesses writes the currently visible subset of a dataset to an
// XLSX workbook and returns a time-limited download URL.
func (h *ExportHandlers) ExportBusinesses(c echo.Context) error {
	ctx := c.Request().Context()

	datasetID, err := common.ValidateUUID(c.Param("datasetId"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	var criteria models.FilterCriteria
	if err := c.Bind(&criteria); err != nil {
		return common.SendClientError(c, "Invalid filter criteria")
	}

	url, count, err := h.exportService.ExportFiltered(ctx, datasetID, criteria)
	if err != nil {
		return common.SendServerError(c, "Failed to export businesses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"download_url": url,
		"row_count":    count,
	})
}

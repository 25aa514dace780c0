package handlers

import (
	"log"
	"net/http"

	"leadscout/internal/common"
	"leadscout/internal/services"

	"github.com/labstack/echo/v4"
)

// DatasetHandlers handles dataset-related HTTP requests
type DatasetHandlers struct {
	datasetService services.DatasetService
}

// NewDatasetHandlers creates a new dataset handlers instance
func NewDatasetHandlers(datasetService services.DatasetService) *DatasetHandlers {
	return &DatasetHandlers{
		datasetService: datasetService,
	}
}

// ListDatasets handles listing datasets, newest first
func (h *DatasetHandlers) ListDatasets(c echo.Context) error {
	ctx := c.Request().Context()

	datasets, err := h.datasetService.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list datasets")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"datasets": datasets,
	})
}

// GetDataset handles getting dataset details by ID
func (h *DatasetHandlers) GetDataset(c echo.Context) error {
	ctx := c.Request().Context()

	datasetID, err := common.ValidateUUID(c.Param("id"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	dataset, err := h.datasetService.Get(ctx, datasetID)
	if err != nil {
		return common.SendNotFoundError(c, "Dataset")
	}

	return c.JSON(http.StatusOK, dataset)
}

// DeleteDataset handles deleting a dataset with its businesses and upload.
// The request must carry confirm=true; dropping a dataset is irreversible.
func (h *DatasetHandlers) DeleteDataset(c echo.Context) error {
	ctx := c.Request().Context()

	datasetID, err := common.ValidateUUID(c.Param("id"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	if c.QueryParam("confirm") != "true" {
		return common.SendValidationError(c, "confirm", "Deletion must be confirmed with confirm=true")
	}

	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		log.Printf("User %s deleting dataset %s", userID, datasetID)
	}

	if err := h.datasetService.Delete(ctx, datasetID); err != nil {
		return common.SendServerError(c, "Failed to delete dataset")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Dataset deleted successfully",
	})
}

// GetDatasetSummary returns the cached provider/status rollup for a dataset
func (h *DatasetHandlers) GetDatasetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	datasetID, err := common.ValidateUUID(c.Param("id"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	summary, err := h.datasetService.Summary(ctx, datasetID)
	if err != nil {
		return common.SendNotFoundError(c, "Dataset")
	}

	return c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"leadscout/internal/common"
	"leadscout/internal/models"
	"leadscout/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRadiusKm bounds the proximity filter; anything wider than this is a
// client mistake, not a search.
const maxRadiusKm = 500.0

// BusinessHandlers handles business-related HTTP requests
type BusinessHandlers struct {
	businessService services.BusinessService
}

// NewBusinessHandlers creates a new business handlers instance
func NewBusinessHandlers(businessService services.BusinessService) *BusinessHandlers {
	return &BusinessHandlers{
		businessService: businessService,
	}
}

// FilterBusinesses applies the full filter criteria to a dataset and returns
// the visible subset. POST because the criteria carry nested structures the
// query string cannot express cleanly.
func (h *BusinessHandlers) FilterBusinesses(c echo.Context) error {
	ctx := c.Request().Context()

	datasetID, err := common.ValidateUUID(c.Param("datasetId"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	var criteria models.FilterCriteria
	if err := c.Bind(&criteria); err != nil {
		return common.SendClientError(c, "Invalid filter criteria")
	}

	if criteria.DroppedPin != nil {
		if err := common.ValidateLatitude(criteria.DroppedPin.Latitude, "dropped_pin.latitude"); err != nil {
			return common.SendValidationError(c, "dropped_pin", err.Error())
		}
		if err := common.ValidateLongitude(criteria.DroppedPin.Longitude, "dropped_pin.longitude"); err != nil {
			return common.SendValidationError(c, "dropped_pin", err.Error())
		}
		if err := common.ValidateRadius(criteria.RadiusKm, "radius_km", maxRadiusKm); err != nil {
			return common.SendValidationError(c, "radius_km", err.Error())
		}
	}

	businesses, err := h.businessService.Filter(ctx, datasetID, criteria)
	if err != nil {
		return common.SendServerError(c, "Failed to filter businesses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// GetBusiness handles getting business details by ID
func (h *BusinessHandlers) GetBusiness(c echo.Context) error {
	ctx := c.Request().Context()

	businessID, err := common.ValidateUUID(c.Param("id"), "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	business, err := h.businessService.GetByID(ctx, businessID)
	if err != nil {
		return common.SendNotFoundError(c, "Business")
	}

	return c.JSON(http.StatusOK, business)
}

// UpdateStatusRequest represents the status update request payload
type UpdateStatusRequest struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// UpdateStatus handles updating the contact status of a business
func (h *BusinessHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	businessID, err := common.ValidateUUID(c.Param("id"), "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	datasetID, err := common.ValidateUUID(req.DatasetID, "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	if err := h.businessService.UpdateStatus(ctx, datasetID, businessID, req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return common.SendValidationError(c, "status", "Status must be one of: active, contacted, converted, inactive")
		}
		return common.SendServerError(c, "Failed to update status")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Status updated successfully",
	})
}

// SetPhoneTypeRequest represents the phone type override request payload
type SetPhoneTypeRequest struct {
	DatasetID string  `json:"dataset_id" validate:"required"`
	PhoneType *string `json:"phone_type"` // nil clears the override
}

// SetPhoneTypeOverride handles setting or clearing a manual phone type
func (h *BusinessHandlers) SetPhoneTypeOverride(c echo.Context) error {
	ctx := c.Request().Context()

	businessID, err := common.ValidateUUID(c.Param("id"), "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	var req SetPhoneTypeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	datasetID, err := common.ValidateUUID(req.DatasetID, "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	if err := h.businessService.SetPhoneTypeOverride(ctx, datasetID, businessID, req.PhoneType); err != nil {
		if errors.Is(err, services.ErrInvalidPhoneType) {
			return common.SendValidationError(c, "phone_type", "Phone type must be landline or mobile")
		}
		return common.SendServerError(c, "Failed to update phone type")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Phone type updated successfully",
	})
}

// AddNoteRequest represents the note creation request payload
type AddNoteRequest struct {
	Text     string `json:"text" validate:"required"`
	Category string `json:"category"`
}

// AddNote handles attaching a note to a business
func (h *BusinessHandlers) AddNote(c echo.Context) error {
	ctx := c.Request().Context()

	businessID, err := common.ValidateUUID(c.Param("id"), "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Text, "text"); err != nil {
		return common.SendValidationError(c, "text", err.Error())
	}

	note, err := h.businessService.AddNote(ctx, businessID, req.Text, req.Category)
	if err != nil {
		return common.SendServerError(c, "Failed to add note")
	}

	return c.JSON(http.StatusCreated, note)
}

// DeleteBusinessRequest carries the dataset the business belongs to.
// Confirm must be true; deletes are irreversible.
type DeleteBusinessRequest struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Confirm   bool   `json:"confirm"`
}

// DeleteBusiness handles deleting a business and its route references
func (h *BusinessHandlers) DeleteBusiness(c echo.Context) error {
	ctx := c.Request().Context()

	businessID, err := common.ValidateUUID(c.Param("id"), "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	var req DeleteBusinessRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !req.Confirm {
		return common.SendValidationError(c, "confirm", "Deletion must be confirmed with confirm: true")
	}

	datasetID, err := common.ValidateUUID(req.DatasetID, "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		log.Printf("User %s deleting business %s from dataset %s", userID, businessID, datasetID)
	}

	if err := h.businessService.Delete(ctx, datasetID, businessID); err != nil {
		return common.SendServerError(c, "Failed to delete business")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Business deleted successfully",
	})
}

// BulkDeleteRequest represents the bulk delete request payload.
// Confirm must be true; deletes are irreversible.
type BulkDeleteRequest struct {
	DatasetID   string   `json:"dataset_id" validate:"required"`
	BusinessIDs []string `json:"business_ids" validate:"required"`
	Confirm     bool     `json:"confirm"`
}

// BulkDeleteBusinesses handles deleting a selection of businesses at once
func (h *BusinessHandlers) BulkDeleteBusinesses(c echo.Context) error {
	ctx := c.Request().Context()

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !req.Confirm {
		return common.SendValidationError(c, "confirm", "Deletion must be confirmed with confirm: true")
	}

	datasetID, err := common.ValidateUUID(req.DatasetID, "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}
	if len(req.BusinessIDs) == 0 {
		return common.SendValidationError(c, "business_ids", "At least one business ID is required")
	}

	ids := make([]uuid.UUID, 0, len(req.BusinessIDs))
	for _, idStr := range req.BusinessIDs {
		id, err := common.ValidateUUID(idStr, "business_ids")
		if err != nil {
			return common.SendValidationError(c, "business_ids", err.Error())
		}
		ids = append(ids, id)
	}

	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		log.Printf("User %s bulk-deleting %d businesses from dataset %s", userID, len(ids), datasetID)
	}

	if err := h.businessService.BulkDelete(ctx, datasetID, ids); err != nil {
		return common.SendServerError(c, "Failed to delete businesses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Businesses deleted successfully",
		"deleted": len(ids),
	})
}

// GetEngineStats reports filter cache hit rates for a dataset
func (h *BusinessHandlers) GetEngineStats(c echo.Context) error {
	datasetID, err := common.ValidateUUID(c.Param("datasetId"), "dataset_id")
	if err != nil {
		return common.SendValidationError(c, "dataset_id", err.Error())
	}

	return c.JSON(http.StatusOK, h.businessService.EngineStats(datasetID))
}

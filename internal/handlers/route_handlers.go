package handlers

import (
	"net/http"

	"leadscout/internal/common"
	"leadscout/internal/services"

	"github.com/labstack/echo/v4"
)

// RouteHandlers handles visit-route HTTP requests
type RouteHandlers struct {
	routeService services.RouteService
}

// NewRouteHandlers creates a new route handlers instance
func NewRouteHandlers(routeService services.RouteService) *RouteHandlers {
	return &RouteHandlers{
		routeService: routeService,
	}
}

// CreateRouteRequest represents the route creation request payload
type CreateRouteRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateRoute handles creating a new visit route
func (h *RouteHandlers) CreateRoute(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateRouteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	route, err := h.routeService.CreateRoute(ctx, req.Name)
	if err != nil {
		return common.SendServerError(c, "Failed to create route")
	}

	return c.JSON(http.StatusCreated, route)
}

// ListRoutes handles listing all routes
func (h *RouteHandlers) ListRoutes(c echo.Context) error {
	ctx := c.Request().Context()

	routes, err := h.routeService.ListRoutes(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list routes")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"routes": routes,
	})
}

// DeleteRoute handles deleting a route and its stops
func (h *RouteHandlers) DeleteRoute(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := common.ValidateUUID(c.Param("id"), "route_id")
	if err != nil {
		return common.SendValidationError(c, "route_id", err.Error())
	}

	if err := h.routeService.DeleteRoute(ctx, routeID); err != nil {
		return common.SendServerError(c, "Failed to delete route")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Route deleted successfully",
	})
}

// AddStopRequest represents the add-stop request payload
type AddStopRequest struct {
	BusinessID string `json:"business_id" validate:"required"`
}

// AddStop appends a business to the end of a route
func (h *RouteHandlers) AddStop(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := common.ValidateUUID(c.Param("id"), "route_id")
	if err != nil {
		return common.SendValidationError(c, "route_id", err.Error())
	}

	var req AddStopRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	businessID, err := common.ValidateUUID(req.BusinessID, "business_id")
	if err != nil {
		return common.SendValidationError(c, "business_id", err.Error())
	}

	item, err := h.routeService.AddStop(ctx, routeID, businessID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, item)
}

// ListStops returns the stops of a route in visiting order
func (h *RouteHandlers) ListStops(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := common.ValidateUUID(c.Param("id"), "route_id")
	if err != nil {
		return common.SendValidationError(c, "route_id", err.Error())
	}

	items, err := h.routeService.ListStops(ctx, routeID)
	if err != nil {
		return common.SendServerError(c, "Failed to list stops")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"stops": items,
	})
}

// RemoveStop removes a stop; remaining stops close the gap
func (h *RouteHandlers) RemoveStop(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := common.ValidateUUID(c.Param("id"), "route_id")
	if err != nil {
		return common.SendValidationError(c, "route_id", err.Error())
	}
	itemID, err := common.ValidateUUID(c.Param("itemId"), "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	if err := h.routeService.RemoveStop(ctx, routeID, itemID); err != nil {
		return common.SendServerError(c, "Failed to remove stop")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Stop removed successfully",
	})
}

// MoveStopRequest represents the reorder request payload
type MoveStopRequest struct {
	Position int `json:"position"`
}

// MoveStop moves a stop to a new position in the visiting order
func (h *RouteHandlers) MoveStop(c echo.Context) error {
	ctx := c.Request().Context()

	routeID, err := common.ValidateUUID(c.Param("id"), "route_id")
	if err != nil {
		return common.SendValidationError(c, "route_id", err.Error())
	}
	itemID, err := common.ValidateUUID(c.Param("itemId"), "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	var req MoveStopRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.routeService.MoveStop(ctx, routeID, itemID, req.Position); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Stop moved successfully",
	})
}

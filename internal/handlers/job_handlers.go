package handlers

import (
	"net/http"

	"leadscout/internal/caching"
	"leadscout/internal/common"

	"github.com/labstack/echo/v4"
)

// JobStatusReporter exposes the background scheduler's job inventory.
type JobStatusReporter interface {
	GetJobStatus() map[string]interface{}
}

// JobHandlers handles background job and cache maintenance requests
type JobHandlers struct {
	reporter     JobStatusReporter
	cacheService caching.CacheService
}

// NewJobHandlers creates a new job handlers instance
func NewJobHandlers(reporter JobStatusReporter, cacheService caching.CacheService) *JobHandlers {
	return &JobHandlers{
		reporter:     reporter,
		cacheService: cacheService,
	}
}

// GetJobStatus reports which background jobs are registered
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reporter.GetJobStatus())
}

// FlushCache drops every cached entry. Meant for operators after manual
// database surgery; the caches repopulate on demand.
func (h *JobHandlers) FlushCache(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cacheService.InvalidateAllCache(ctx); err != nil {
		return common.SendServerError(c, "Failed to flush cache")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cache flushed successfully",
	})
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteDataset_RequiresConfirmation(t *testing.T) {
	datasetSvc := new(MockDatasetService)
	h := NewDatasetHandlers(datasetSvc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/datasets/x", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	require.NoError(t, h.DeleteDataset(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirm")
	datasetSvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteDataset_ConfirmedDeleteGoesThrough(t *testing.T) {
	datasetSvc := new(MockDatasetService)
	h := NewDatasetHandlers(datasetSvc)

	datasetID := uuid.New()
	datasetSvc.On("Delete", mock.Anything, datasetID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/datasets/x?confirm=true", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(datasetID.String())

	require.NoError(t, h.DeleteDataset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	datasetSvc.AssertCalled(t, "Delete", mock.Anything, datasetID)
}

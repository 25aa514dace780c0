package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadscout/internal/models"
	"leadscout/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUploadRequest(t *testing.T, filename, contents string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/imports/preview", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestPreviewImport_ReturnsPreview(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(false, nil)
	importSvc.On("Preview", mock.Anything, "leads.csv", mock.Anything).Return(&models.ImportPreview{
		UploadID: uuid.New(),
		Columns:  []string{"name", "provider"},
		RowCount: 2,
	}, nil)

	req, rec := newUploadRequest(t, "leads.csv", "name,provider\nAcme,MTN\nBeta,Vodacom\n")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.PreviewImport(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "provider")
}

func TestPreviewImport_RateLimited(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(true, nil)

	req, rec := newUploadRequest(t, "leads.csv", "name\nAcme\n")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.PreviewImport(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	importSvc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreviewImport_RedisOutageLetsRequestThrough(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(true, fmt.Errorf("redis: connection refused"))
	importSvc.On("Preview", mock.Anything, mock.Anything, mock.Anything).Return(&models.ImportPreview{UploadID: uuid.New()}, nil)

	req, rec := newUploadRequest(t, "leads.csv", "name\nAcme\n")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.PreviewImport(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreviewImport_StorageFailureIsServerError(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(false, nil)
	importSvc.On("Preview", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: connection refused", services.ErrStorageFailure))

	req, rec := newUploadRequest(t, "leads.csv", "name\nAcme\n")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.PreviewImport(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVER_ERROR")
}

func TestPreviewImport_DecodeFailureIsClientError(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(false, nil)
	importSvc.On("Preview", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("import file has no data rows"))

	req, rec := newUploadRequest(t, "empty.csv", "")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.PreviewImport(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommitImport_RateLimited(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	cacheSvc.On("IsRateLimited", mock.Anything, mock.Anything, importRateLimit, importRateWindow).Return(true, nil)

	payload := fmt.Sprintf(`{"upload_id":%q,"mode":"replace"}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/v1/imports/commit", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.CommitImport(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	importSvc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetImportProgress_ReadsProgressKey(t *testing.T) {
	importSvc := new(MockImportService)
	cacheSvc := new(MockCacheService)
	h := NewImportHandlers(importSvc, cacheSvc)

	uploadID := uuid.New()
	cacheSvc.On("GetString", mock.Anything, services.ImportProgressKey(uploadID)).Return("500/1200", nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uploadID.String())

	require.NoError(t, h.GetImportProgress(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "500/1200", body["progress"])
}

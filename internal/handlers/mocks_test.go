package handlers

import (
	"context"
	"io"
	"time"

	"leadscout/internal/engine"
	"leadscout/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock services shared by the handler tests.

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Preview(ctx context.Context, filename string, reader io.Reader) (*models.ImportPreview, error) {
	args := m.Called(ctx, filename, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportPreview), args.Error(1)
}

func (m *MockImportService) Commit(ctx context.Context, uploadID uuid.UUID, datasetName string, targetDataset *uuid.UUID, mode string, mapping models.ColumnMapping) (*models.ImportResult, error) {
	args := m.Called(ctx, uploadID, datasetName, targetDataset, mode, mapping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

func (m *MockImportService) CleanupStaleUploads(olderThan time.Duration) int {
	args := m.Called(olderThan)
	return args.Int(0)
}

type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) Filter(ctx context.Context, datasetID uuid.UUID, criteria models.FilterCriteria) ([]*models.Business, error) {
	args := m.Called(ctx, datasetID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Business), args.Error(1)
}

func (m *MockBusinessService) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessService) UpdateStatus(ctx context.Context, datasetID, id uuid.UUID, status string) error {
	args := m.Called(ctx, datasetID, id, status)
	return args.Error(0)
}

func (m *MockBusinessService) SetPhoneTypeOverride(ctx context.Context, datasetID, id uuid.UUID, phoneType *string) error {
	args := m.Called(ctx, datasetID, id, phoneType)
	return args.Error(0)
}

func (m *MockBusinessService) AddNote(ctx context.Context, id uuid.UUID, text, category string) (*models.Note, error) {
	args := m.Called(ctx, id, text, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockBusinessService) Delete(ctx context.Context, datasetID, id uuid.UUID) error {
	args := m.Called(ctx, datasetID, id)
	return args.Error(0)
}

func (m *MockBusinessService) BulkDelete(ctx context.Context, datasetID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, datasetID, ids)
	return args.Error(0)
}

func (m *MockBusinessService) ClearDataset(ctx context.Context, datasetID uuid.UUID) error {
	args := m.Called(ctx, datasetID)
	return args.Error(0)
}

func (m *MockBusinessService) InvalidateDataset(datasetID uuid.UUID) {
	m.Called(datasetID)
}

func (m *MockBusinessService) EngineStats(datasetID uuid.UUID) engine.Stats {
	args := m.Called(datasetID)
	return args.Get(0).(engine.Stats)
}

type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) List(ctx context.Context) ([]*models.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Dataset), args.Error(1)
}

func (m *MockDatasetService) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dataset), args.Error(1)
}

func (m *MockDatasetService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDatasetService) Summary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DatasetSummary), args.Error(1)
}

func (m *MockDatasetService) RefreshSummary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DatasetSummary), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDatasetSummary(ctx context.Context, datasetID uuid.UUID) (*models.DatasetSummary, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DatasetSummary), args.Error(1)
}

func (m *MockCacheService) SetDatasetSummary(ctx context.Context, summary *models.DatasetSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDataset(ctx context.Context, datasetID uuid.UUID) error {
	args := m.Called(ctx, datasetID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockJobStatusReporter struct {
	mock.Mock
}

func (m *MockJobStatusReporter) GetJobStatus() map[string]interface{} {
	args := m.Called()
	return args.Get(0).(map[string]interface{})
}

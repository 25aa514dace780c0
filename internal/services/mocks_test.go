package services

import (
	"context"
	"io"
	"time"

	"leadscout/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared by the service tests.

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *models.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) BulkCreate(ctx context.Context, businesses []*models.Business) error {
	args := m.Called(ctx, businesses)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]*models.Business, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Business), args.Error(1)
}

func (m *MockBusinessRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBusinessRepository) UpdatePhoneTypeOverride(ctx context.Context, id uuid.UUID, phoneType *string) error {
	args := m.Called(ctx, id, phoneType)
	return args.Error(0)
}

func (m *MockBusinessRepository) AddNote(ctx context.Context, businessID uuid.UUID, note *models.Note) error {
	args := m.Called(ctx, businessID, note)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetNotes(ctx context.Context, businessID uuid.UUID) ([]models.Note, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockBusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBusinessRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockBusinessRepository) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	args := m.Called(ctx, datasetID)
	return args.Error(0)
}

func (m *MockBusinessRepository) CountByDataset(ctx context.Context, datasetID uuid.UUID) (int, error) {
	args := m.Called(ctx, datasetID)
	return args.Int(0), args.Error(1)
}

func (m *MockBusinessRepository) ProviderCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, datasetID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockBusinessRepository) StatusCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, datasetID)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) CreateRoute(ctx context.Context, route *models.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *MockRouteRepository) GetRoute(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Route), args.Error(1)
}

func (m *MockRouteRepository) ListRoutes(ctx context.Context) ([]*models.Route, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Route), args.Error(1)
}

func (m *MockRouteRepository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRouteRepository) AddItem(ctx context.Context, item *models.RouteItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRouteRepository) RemoveItem(ctx context.Context, routeID, itemID uuid.UUID) error {
	args := m.Called(ctx, routeID, itemID)
	return args.Error(0)
}

func (m *MockRouteRepository) ListItems(ctx context.Context, routeID uuid.UUID) ([]*models.RouteItem, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RouteItem), args.Error(1)
}

func (m *MockRouteRepository) UpdateItemPosition(ctx context.Context, itemID uuid.UUID, position int) error {
	args := m.Called(ctx, itemID, position)
	return args.Error(0)
}

func (m *MockRouteRepository) Resequence(ctx context.Context, routeID uuid.UUID) error {
	args := m.Called(ctx, routeID)
	return args.Error(0)
}

func (m *MockRouteRepository) DeleteItemsForBusiness(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

func (m *MockRouteRepository) NextPosition(ctx context.Context, routeID uuid.UUID) (int, error) {
	args := m.Called(ctx, routeID)
	return args.Int(0), args.Error(1)
}

type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

func (m *MockDatasetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) List(ctx context.Context) ([]*models.Dataset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Dataset), args.Error(1)
}

func (m *MockDatasetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDatasetRepository) UpdateRowCount(ctx context.Context, id uuid.UUID, rowCount int) error {
	args := m.Called(ctx, id, rowCount)
	return args.Error(0)
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

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadFile(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

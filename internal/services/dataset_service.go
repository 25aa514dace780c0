package services

import (
	"context"
	"log"
	"time"

	"leadscout/internal/caching"
	"leadscout/internal/models"
	"leadscout/internal/repositories"

	"github.com/google/uuid"
)

// summaryTTL bounds how stale a cached rollup may get between background
// refreshes.
const summaryTTL = 15 * time.Minute

type DatasetService interface {
	List(ctx context.Context) ([]*models.Dataset, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error)
	RefreshSummary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error)
}

type datasetService struct {
	datasetRepo     repositories.DatasetRepository
	businessRepo    repositories.BusinessRepository
	businessService BusinessService
	storage         StorageService
	cacheService    caching.CacheService
}

func NewDatasetService(datasetRepo repositories.DatasetRepository, businessRepo repositories.BusinessRepository, businessService BusinessService, storage StorageService, cacheService caching.CacheService) DatasetService {
	return &datasetService{
		datasetRepo:     datasetRepo,
		businessRepo:    businessRepo,
		businessService: businessService,
		storage:         storage,
		cacheService:    cacheService,
	}
}

func (s *datasetService) List(ctx context.Context) ([]*models.Dataset, error) {
	return s.datasetRepo.List(ctx)
}

func (s *datasetService) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	return s.datasetRepo.GetByID(ctx, id)
}

// Delete removes the dataset with its businesses, route references, cached
// summaries and the stored source upload.
func (s *datasetService) Delete(ctx context.Context, id uuid.UUID) error {
	dataset, err := s.datasetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.businessService.ClearDataset(ctx, id); err != nil {
		return err
	}
	if err := s.datasetRepo.Delete(ctx, id); err != nil {
		return err
	}

	if dataset.SourceObject != "" {
		if err := s.storage.DeleteFile(ctx, UploadsBucket, dataset.SourceObject); err != nil {
			log.Printf("Failed to delete source object %s for dataset %s: %v", dataset.SourceObject, id, err)
		}
	}
	return nil
}

// Summary returns the cached rollup when present and recomputes it on a miss.
func (s *datasetService) Summary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error) {
	summary, err := s.cacheService.GetDatasetSummary(ctx, id)
	if err != nil {
		log.Printf("Failed to read summary cache for dataset %s: %v", id, err)
	}
	if summary != nil {
		return summary, nil
	}
	return s.RefreshSummary(ctx, id)
}

// RefreshSummary recomputes the rollup from Postgres and writes it back to the
// cache. The background scheduler calls this on a fixed interval.
func (s *datasetService) RefreshSummary(ctx context.Context, id uuid.UUID) (*models.DatasetSummary, error) {
	if _, err := s.datasetRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	rowCount, err := s.businessRepo.CountByDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	providerCounts, err := s.businessRepo.ProviderCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.businessRepo.StatusCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &models.DatasetSummary{
		DatasetID:      id,
		RowCount:       rowCount,
		ProviderCounts: providerCounts,
		StatusCounts:   statusCounts,
		RefreshedAt:    time.Now().UTC(),
	}

	if err := s.cacheService.SetDatasetSummary(ctx, summary, summaryTTL); err != nil {
		log.Printf("Failed to cache summary for dataset %s: %v", id, err)
	}
	return summary, nil
}

package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"leadscout/internal/caching"
	"leadscout/internal/engine"
	"leadscout/internal/models"
	"leadscout/internal/repositories"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid business status")
var ErrInvalidPhoneType = errors.New("invalid phone type")

type BusinessService interface {
	Filter(ctx context.Context, datasetID uuid.UUID, criteria models.FilterCriteria) ([]*models.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	UpdateStatus(ctx context.Context, datasetID, id uuid.UUID, status string) error
	SetPhoneTypeOverride(ctx context.Context, datasetID, id uuid.UUID, phoneType *string) error
	AddNote(ctx context.Context, id uuid.UUID, text, category string) (*models.Note, error)
	Delete(ctx context.Context, datasetID, id uuid.UUID) error
	BulkDelete(ctx context.Context, datasetID uuid.UUID, ids []uuid.UUID) error
	ClearDataset(ctx context.Context, datasetID uuid.UUID) error
	InvalidateDataset(datasetID uuid.UUID)
	EngineStats(datasetID uuid.UUID) engine.Stats
}

// businessService keeps a per-dataset in-memory snapshot of the record set so
// repeated filter calls do not re-read Postgres, plus one filter engine per
// dataset so engine caches never bleed between datasets. Snapshots and engine
// caches are dropped on any mutation of the dataset.
type businessService struct {
	businessRepo repositories.BusinessRepository
	routeRepo    repositories.RouteRepository
	cacheService caching.CacheService

	mu        sync.Mutex
	snapshots map[uuid.UUID][]*models.Business
	engines   map[uuid.UUID]*engine.Engine
}

func NewBusinessService(businessRepo repositories.BusinessRepository, routeRepo repositories.RouteRepository, cacheService caching.CacheService) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		routeRepo:    routeRepo,
		cacheService: cacheService,
		snapshots:    make(map[uuid.UUID][]*models.Business),
		engines:      make(map[uuid.UUID]*engine.Engine),
	}
}

func (s *businessService) Filter(ctx context.Context, datasetID uuid.UUID, criteria models.FilterCriteria) ([]*models.Business, error) {
	records, err := s.records(ctx, datasetID)
	if err != nil {
		// Errors surface as errors, never as an empty result set.
		return nil, err
	}
	return s.engineFor(datasetID).Apply(records, criteria), nil
}

func (s *businessService) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	return s.businessRepo.GetByID(ctx, id)
}

func (s *businessService) UpdateStatus(ctx context.Context, datasetID, id uuid.UUID, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.businessRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.InvalidateDataset(datasetID)
	return nil
}

func (s *businessService) SetPhoneTypeOverride(ctx context.Context, datasetID, id uuid.UUID, phoneType *string) error {
	if phoneType != nil && *phoneType != models.PhoneTypeLandline && *phoneType != models.PhoneTypeMobile {
		return ErrInvalidPhoneType
	}
	if err := s.businessRepo.UpdatePhoneTypeOverride(ctx, id, phoneType); err != nil {
		return err
	}
	s.InvalidateDataset(datasetID)
	return nil
}

func (s *businessService) AddNote(ctx context.Context, id uuid.UUID, text, category string) (*models.Note, error) {
	if text == "" {
		return nil, errors.New("note text is required")
	}
	note := &models.Note{
		ID:       uuid.New(),
		Text:     text,
		Category: category,
	}
	if err := s.businessRepo.AddNote(ctx, id, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *businessService) Delete(ctx context.Context, datasetID, id uuid.UUID) error {
	// Route items referencing the business go with it.
	if err := s.routeRepo.DeleteItemsForBusiness(ctx, id); err != nil {
		return err
	}
	if err := s.businessRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRemote(ctx, datasetID)
	s.InvalidateDataset(datasetID)
	return nil
}

func (s *businessService) BulkDelete(ctx context.Context, datasetID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := s.routeRepo.DeleteItemsForBusiness(ctx, id); err != nil {
			return err
		}
	}
	if err := s.businessRepo.BulkDelete(ctx, ids); err != nil {
		return err
	}
	s.invalidateRemote(ctx, datasetID)
	s.InvalidateDataset(datasetID)
	return nil
}

func (s *businessService) ClearDataset(ctx context.Context, datasetID uuid.UUID) error {
	businesses, err := s.records(ctx, datasetID)
	if err != nil {
		return err
	}
	for _, b := range businesses {
		if err := s.routeRepo.DeleteItemsForBusiness(ctx, b.ID); err != nil {
			return err
		}
	}
	if err := s.businessRepo.DeleteByDataset(ctx, datasetID); err != nil {
		return err
	}
	s.invalidateRemote(ctx, datasetID)
	s.InvalidateDataset(datasetID)
	return nil
}

// InvalidateDataset drops the in-memory snapshot and flushes the dataset's
// engine caches. Called after every mutation, including imports committed by
// the import service.
func (s *businessService) InvalidateDataset(datasetID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, datasetID)
	if eng, ok := s.engines[datasetID]; ok {
		eng.Invalidate()
	}
}

func (s *businessService) EngineStats(datasetID uuid.UUID) engine.Stats {
	return s.engineFor(datasetID).Stats()
}

func (s *businessService) records(ctx context.Context, datasetID uuid.UUID) ([]*models.Business, error) {
	s.mu.Lock()
	if snapshot, ok := s.snapshots[datasetID]; ok {
		s.mu.Unlock()
		return snapshot, nil
	}
	s.mu.Unlock()

	records, err := s.businessRepo.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshots[datasetID] = records
	s.mu.Unlock()
	return records, nil
}

func (s *businessService) engineFor(datasetID uuid.UUID) *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	eng, ok := s.engines[datasetID]
	if !ok {
		eng = engine.New()
		s.engines[datasetID] = eng
	}
	return eng
}

func (s *businessService) invalidateRemote(ctx context.Context, datasetID uuid.UUID) {
	// Cache failures degrade to a miss, they never fail the operation.
	if err := s.cacheService.InvalidateDataset(ctx, datasetID); err != nil {
		log.Printf("Failed to invalidate cache for dataset %s: %v", datasetID, err)
	}
}

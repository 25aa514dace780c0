package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"leadscout/internal/caching"
	"leadscout/internal/importer"
	"leadscout/internal/models"
	"leadscout/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrUploadNotFound    = errors.New("upload not found or expired")
	ErrImportInProgress  = errors.New("an import for this upload is already running")
	ErrInvalidImportMode = errors.New("import mode must be replace or append")
	ErrStorageFailure    = errors.New("object storage unavailable")
)

// ImportProgressKey is the cache key under which chunked-mapping progress for
// an in-flight commit is published.
func ImportProgressKey(uploadID uuid.UUID) string {
	return fmt.Sprintf("leadscout:importprogress:%s", uploadID)
}

// previewSampleSize rows are returned for the column-mapping screen.
const previewSampleSize = 5

// DatasetInvalidator lets the import service drop the business service's
// in-memory snapshot after a commit without a package cycle.
type DatasetInvalidator interface {
	InvalidateDataset(datasetID uuid.UUID)
}

type ImportService interface {
	Preview(ctx context.Context, filename string, reader io.Reader) (*models.ImportPreview, error)
	Commit(ctx context.Context, uploadID uuid.UUID, datasetName string, targetDataset *uuid.UUID, mode string, mapping models.ColumnMapping) (*models.ImportResult, error)
	CleanupStaleUploads(olderThan time.Duration) int
}

type stagedUpload struct {
	id         uuid.UUID
	filename   string
	objectName string
	rows       []models.RawRow
	columns    []string
	createdAt  time.Time
	committing bool
}

type importService struct {
	mapper       *importer.Mapper
	businessRepo repositories.BusinessRepository
	datasetRepo  repositories.DatasetRepository
	storage      StorageService
	cacheService caching.CacheService
	invalidator  DatasetInvalidator

	mu      sync.Mutex
	uploads map[uuid.UUID]*stagedUpload
}

func NewImportService(businessRepo repositories.BusinessRepository, datasetRepo repositories.DatasetRepository, storage StorageService, cacheService caching.CacheService, invalidator DatasetInvalidator) ImportService {
	return &importService{
		mapper:       importer.NewMapper(),
		businessRepo: businessRepo,
		datasetRepo:  datasetRepo,
		storage:      storage,
		cacheService: cacheService,
		invalidator:  invalidator,
		uploads:      make(map[uuid.UUID]*stagedUpload),
	}
}

// Preview uploads the original file to object storage, decodes it and stages
// the rows for a later commit. Structural problems (empty sheet, bad JSON)
// are reported here, before any mapping happens.
func (s *importService) Preview(ctx context.Context, filename string, reader io.Reader) (*models.ImportPreview, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	rows, columns, err := importer.DecodeRows(filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	uploadID := uuid.New()
	objectName := fmt.Sprintf("%s/%s", uploadID, filepath.Base(filename))
	if err := s.storage.UploadFile(ctx, UploadsBucket, objectName, contentTypeFor(filename), bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.mu.Lock()
	s.uploads[uploadID] = &stagedUpload{
		id:         uploadID,
		filename:   filename,
		objectName: objectName,
		rows:       rows,
		columns:    columns,
		createdAt:  time.Now(),
	}
	s.mu.Unlock()

	sample := rows
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}

	return &models.ImportPreview{
		UploadID:   uploadID,
		Columns:    columns,
		SampleRows: sample,
		RowCount:   len(rows),
	}, nil
}

// Commit maps the staged rows with the user-confirmed column mapping and
// persists them. Mode replace drops the target dataset's records first,
// append adds to them; without a target dataset a new one is created. A
// second commit for the same upload while one is running is rejected rather
// than racing it.
func (s *importService) Commit(ctx context.Context, uploadID uuid.UUID, datasetName string, targetDataset *uuid.UUID, mode string, mapping models.ColumnMapping) (*models.ImportResult, error) {
	if mode != models.ImportModeReplace && mode != models.ImportModeAppend {
		return nil, ErrInvalidImportMode
	}

	s.mu.Lock()
	upload, ok := s.uploads[uploadID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrUploadNotFound
	}
	if upload.committing {
		s.mu.Unlock()
		return nil, ErrImportInProgress
	}
	upload.committing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		upload.committing = false
		s.mu.Unlock()
	}()

	datasetID, isNew, err := s.resolveDataset(ctx, datasetName, targetDataset, upload.objectName, len(upload.rows))
	if err != nil {
		return nil, err
	}

	progress := func(processed, total int) {
		value := fmt.Sprintf("%d/%d", processed, total)
		if err := s.cacheService.SetString(ctx, ImportProgressKey(uploadID), value, 10*time.Minute); err != nil {
			log.Printf("Failed to record import progress: %v", err)
		}
	}

	businesses, err := s.mapper.MapRows(ctx, datasetID, upload.rows, mapping, progress)
	if err != nil {
		return nil, err
	}

	if mode == models.ImportModeReplace && !isNew {
		if err := s.businessRepo.DeleteByDataset(ctx, datasetID); err != nil {
			return nil, fmt.Errorf("failed to clear dataset before replace: %w", err)
		}
	}

	if err := s.businessRepo.BulkCreate(ctx, businesses); err != nil {
		return nil, fmt.Errorf("failed to persist imported records: %w", err)
	}

	count, err := s.businessRepo.CountByDataset(ctx, datasetID)
	if err == nil {
		if err := s.datasetRepo.UpdateRowCount(ctx, datasetID, count); err != nil {
			log.Printf("Failed to update dataset row count: %v", err)
		}
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateDataset(datasetID)
	}
	if err := s.cacheService.InvalidateDataset(ctx, datasetID); err != nil {
		log.Printf("Failed to invalidate dataset cache: %v", err)
	}

	s.mu.Lock()
	delete(s.uploads, uploadID)
	s.mu.Unlock()

	// The progress key has served its purpose once the commit is done.
	if err := s.cacheService.Delete(ctx, ImportProgressKey(uploadID)); err != nil {
		log.Printf("Failed to drop import progress key: %v", err)
	}

	return &models.ImportResult{
		DatasetID:       datasetID,
		RecordsImported: len(businesses),
		Mode:            mode,
	}, nil
}

// CleanupStaleUploads drops staged uploads older than the given age. Runs
// from the background scheduler; an upload mid-commit is never dropped.
func (s *importService) CleanupStaleUploads(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, upload := range s.uploads {
		if !upload.committing && upload.createdAt.Before(cutoff) {
			delete(s.uploads, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Cleaned up %d stale staged uploads", removed)
	}
	return removed
}

func (s *importService) resolveDataset(ctx context.Context, name string, target *uuid.UUID, objectName string, rowCount int) (uuid.UUID, bool, error) {
	if target != nil {
		if _, err := s.datasetRepo.GetByID(ctx, *target); err != nil {
			return uuid.Nil, false, fmt.Errorf("target dataset not found: %w", err)
		}
		return *target, false, nil
	}

	if name == "" {
		name = fmt.Sprintf("Import %s", time.Now().Format("2006-01-02 15:04"))
	}
	dataset := &models.Dataset{
		ID:           uuid.New(),
		Name:         name,
		SourceObject: objectName,
		RowCount:     rowCount,
	}
	if err := s.datasetRepo.Create(ctx, dataset); err != nil {
		return uuid.Nil, false, err
	}
	return dataset.ID, true, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}

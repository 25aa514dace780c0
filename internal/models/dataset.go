package models

import (
	"time"

	"github.com/google/uuid"
)

// Dataset groups the businesses produced by one import. SourceObject is the
// MinIO object name of the original upload, kept for re-import and audit.
type Dataset struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	SourceObject string    `json:"source_object" db:"source_object"`
	RowCount     int       `json:"row_count" db:"row_count"`
	ImportedAt   time.Time `json:"imported_at" db:"imported_at"`
}

// DatasetSummary is the cached per-dataset rollup refreshed by the background
// summary job.
type DatasetSummary struct {
	DatasetID      uuid.UUID      `json:"dataset_id"`
	RowCount       int            `json:"row_count"`
	ProviderCounts map[string]int `json:"provider_counts"`
	StatusCounts   map[string]int `json:"status_counts"`
	RefreshedAt    time.Time      `json:"refreshed_at"`
}

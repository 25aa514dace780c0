package repositories

import (
	"context"

	"leadscout/internal/models"

	"github.com/google/uuid"
)

type DatasetRepository interface {
	Create(ctx context.Context, dataset *models.Dataset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	List(ctx context.Context) ([]*models.Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRowCount(ctx context.Context, id uuid.UUID, rowCount int) error
}

type datasetRepo struct {
	db Database
}

func NewDatasetRepo(db Database) DatasetRepository {
	return &datasetRepo{db: db}
}

func (r *datasetRepo) Create(ctx context.Context, dataset *models.Dataset) error {
	query := `
		INSERT INTO datasets (id, name, source_object, row_count, imported_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, dataset.ID, dataset.Name, dataset.SourceObject, dataset.RowCount)
	return err
}

func (r *datasetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	dataset := &models.Dataset{}
	query := `
		SELECT id, name, source_object, row_count, imported_at
		FROM datasets
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&dataset.ID, &dataset.Name, &dataset.SourceObject, &dataset.RowCount, &dataset.ImportedAt)
	if err != nil {
		return nil, err
	}
	return dataset, nil
}

func (r *datasetRepo) List(ctx context.Context) ([]*models.Dataset, error) {
	query := `
		SELECT id, name, source_object, row_count, imported_at
		FROM datasets
		ORDER BY imported_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []*models.Dataset
	for rows.Next() {
		dataset := &models.Dataset{}
		if err := rows.Scan(&dataset.ID, &dataset.Name, &dataset.SourceObject, &dataset.RowCount, &dataset.ImportedAt); err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset)
	}
	return datasets, rows.Err()
}

func (r *datasetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM datasets WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *datasetRepo) UpdateRowCount(ctx context.Context, id uuid.UUID, rowCount int) error {
	query := `UPDATE datasets SET row_count = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, rowCount, id)
	return err
}

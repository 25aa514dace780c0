package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"leadscout/internal/models"

	"github.com/google/uuid"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	BulkCreate(ctx context.Context, businesses []*models.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]*models.Business, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePhoneTypeOverride(ctx context.Context, id uuid.UUID, phoneType *string) error
	AddNote(ctx context.Context, businessID uuid.UUID, note *models.Note) error
	GetNotes(ctx context.Context, businessID uuid.UUID) ([]models.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) error
	DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error
	CountByDataset(ctx context.Context, datasetID uuid.UUID) (int, error)
	ProviderCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error)
	StatusCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error)
}

type businessRepo struct {
	db Database
}

func NewBusinessRepo(db Database) BusinessRepository {
	return &businessRepo{db: db}
}

const businessColumns = `id, dataset_id, name, address, phone, email, website, provider, category, town, province, latitude, longitude, status, phone_type_override, metadata, created_at, updated_at`

func (r *businessRepo) Create(ctx context.Context, business *models.Business) error {
	metadata, err := json.Marshal(business.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `
		INSERT INTO businesses (id, dataset_id, name, address, phone, email, website, provider, category, town, province, latitude, longitude, status, phone_type_override, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query,
		business.ID, business.DatasetID, business.Name, business.Address, business.Phone,
		business.Email, business.Website, business.Provider, business.Category,
		business.Town, business.Province,
		business.Coordinates.Latitude, business.Coordinates.Longitude,
		business.Status, business.PhoneTypeOverride, metadata)
	return err
}

func (r *businessRepo) BulkCreate(ctx context.Context, businesses []*models.Business) error {
	if len(businesses) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO businesses (id, dataset_id, name, address, phone, email, website, provider, category, town, province, latitude, longitude, status, phone_type_override, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	for _, business := range businesses {
		metadata, err := json.Marshal(business.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", business.ID, err)
		}
		if _, err := tx.Exec(ctx, query,
			business.ID, business.DatasetID, business.Name, business.Address, business.Phone,
			business.Email, business.Website, business.Provider, business.Category,
			business.Town, business.Province,
			business.Coordinates.Latitude, business.Coordinates.Longitude,
			business.Status, business.PhoneTypeOverride, metadata); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *businessRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE id = $1
	`
	business, err := scanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	notes, err := r.GetNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	business.Notes = notes

	return business, nil
}

func (r *businessRepo) ListByDataset(ctx context.Context, datasetID uuid.UUID) ([]*models.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE dataset_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []*models.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}
	return businesses, rows.Err()
}

func (r *businessRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE businesses SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("business %s not found", id)
	}
	return nil
}

func (r *businessRepo) UpdatePhoneTypeOverride(ctx context.Context, id uuid.UUID, phoneType *string) error {
	query := `UPDATE businesses SET phone_type_override = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, phoneType, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("business %s not found", id)
	}
	return nil
}

func (r *businessRepo) AddNote(ctx context.Context, businessID uuid.UUID, note *models.Note) error {
	query := `
		INSERT INTO business_notes (id, business_id, text, category, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, note.ID, businessID, note.Text, note.Category)
	return err
}

func (r *businessRepo) GetNotes(ctx context.Context, businessID uuid.UUID) ([]models.Note, error) {
	query := `
		SELECT id, text, category, created_at
		FROM business_notes
		WHERE business_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Text, &note.Category, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *businessRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM businesses WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *businessRepo) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM businesses WHERE id = ANY($1)`
	_, err := r.db.Exec(ctx, query, ids)
	return err
}

func (r *businessRepo) DeleteByDataset(ctx context.Context, datasetID uuid.UUID) error {
	query := `DELETE FROM businesses WHERE dataset_id = $1`
	_, err := r.db.Exec(ctx, query, datasetID)
	return err
}

func (r *businessRepo) CountByDataset(ctx context.Context, datasetID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM businesses WHERE dataset_id = $1`
	err := r.db.QueryRow(ctx, query, datasetID).Scan(&count)
	return count, err
}

func (r *businessRepo) ProviderCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT provider, COUNT(*)
		FROM businesses
		WHERE dataset_id = $1
		GROUP BY provider
	`
	return r.countsQuery(ctx, query, datasetID)
}

func (r *businessRepo) StatusCounts(ctx context.Context, datasetID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM businesses
		WHERE dataset_id = $1
		GROUP BY status
	`
	return r.countsQuery(ctx, query, datasetID)
}

func (r *businessRepo) countsQuery(ctx context.Context, query string, datasetID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*models.Business, error) {
	business := &models.Business{}
	var metadata []byte

	err := row.Scan(
		&business.ID, &business.DatasetID, &business.Name, &business.Address, &business.Phone,
		&business.Email, &business.Website, &business.Provider, &business.Category,
		&business.Town, &business.Province,
		&business.Coordinates.Latitude, &business.Coordinates.Longitude,
		&business.Status, &business.PhoneTypeOverride, &metadata,
		&business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &business.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", business.ID, err)
		}
	}
	return business, nil
}

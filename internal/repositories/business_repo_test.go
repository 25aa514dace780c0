package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leadscout/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BusinessRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      BusinessRepository
	datasetID uuid.UUID
	context   context.Context
}

func (suite *BusinessRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBusinessRepo(mock)
	suite.datasetID = uuid.New()
	suite.context = context.Background()
}

func (suite *BusinessRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestBusinessRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BusinessRepoTestSuite))
}

func (suite *BusinessRepoTestSuite) sampleBusiness() *models.Business {
	return &models.Business{
		ID:        uuid.New(),
		DatasetID: suite.datasetID,
		Name:      "Acme Hardware",
		Address:   "1 Main Rd",
		Phone:     "018 462 1234",
		Provider:  "MTN",
		Category:  "Retail",
		Town:      "Klerksdorp",
		Province:  "North West",
		Coordinates: models.Coordinates{
			Latitude:  -26.8521,
			Longitude: 26.6667,
		},
		Status: models.StatusActive,
	}
}

func (suite *BusinessRepoTestSuite) TestCreate_Success() {
	business := suite.sampleBusiness()
	metadata, _ := json.Marshal(business.Metadata)

	suite.mock.ExpectExec(`INSERT INTO businesses`).
		WithArgs(business.ID, business.DatasetID, business.Name, business.Address, business.Phone,
			business.Email, business.Website, business.Provider, business.Category,
			business.Town, business.Province,
			business.Coordinates.Latitude, business.Coordinates.Longitude,
			business.Status, business.PhoneTypeOverride, metadata).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, business)
	assert.NoError(suite.T(), err)
}

func (suite *BusinessRepoTestSuite) TestBulkCreate_UsesSingleTransaction() {
	b1 := suite.sampleBusiness()
	b2 := suite.sampleBusiness()
	metadata, _ := json.Marshal(models.Metadata{})

	suite.mock.ExpectBegin()
	for _, b := range []*models.Business{b1, b2} {
		suite.mock.ExpectExec(`INSERT INTO businesses`).
			WithArgs(b.ID, b.DatasetID, b.Name, b.Address, b.Phone,
				b.Email, b.Website, b.Provider, b.Category, b.Town, b.Province,
				b.Coordinates.Latitude, b.Coordinates.Longitude,
				b.Status, b.PhoneTypeOverride, metadata).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	suite.mock.ExpectCommit()

	err := suite.repo.BulkCreate(suite.context, []*models.Business{b1, b2})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *BusinessRepoTestSuite) TestBulkCreate_EmptySliceIsNoop() {
	err := suite.repo.BulkCreate(suite.context, nil)
	assert.NoError(suite.T(), err)
}

func (suite *BusinessRepoTestSuite) TestGetByID_Success() {
	business := suite.sampleBusiness()
	metadata, _ := json.Marshal(business.Metadata)
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT (.+) FROM businesses`).
		WithArgs(business.ID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "dataset_id", "name", "address", "phone", "email", "website",
			"provider", "category", "town", "province", "latitude", "longitude",
			"status", "phone_type_override", "metadata", "created_at", "updated_at",
		}).AddRow(
			business.ID, business.DatasetID, business.Name, business.Address, business.Phone,
			business.Email, business.Website, business.Provider, business.Category,
			business.Town, business.Province,
			business.Coordinates.Latitude, business.Coordinates.Longitude,
			business.Status, business.PhoneTypeOverride, metadata, now, now,
		))

	suite.mock.ExpectQuery(`SELECT id, text, category, created_at`).
		WithArgs(business.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "text", "category", "created_at"}).
			AddRow(uuid.New(), "spoke to owner", "visit", now))

	got, err := suite.repo.GetByID(suite.context, business.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), business.Name, got.Name)
	assert.Equal(suite.T(), business.Coordinates, got.Coordinates)
	assert.Len(suite.T(), got.Notes, 1)
	assert.Equal(suite.T(), "spoke to owner", got.Notes[0].Text)
}

func (suite *BusinessRepoTestSuite) TestUpdateStatus_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE businesses SET status`).
		WithArgs(models.StatusContacted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.context, id, models.StatusContacted)
	assert.Error(suite.T(), err)
}

func (suite *BusinessRepoTestSuite) TestUpdateStatus_Success() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE businesses SET status`).
		WithArgs(models.StatusConverted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, id, models.StatusConverted)
	assert.NoError(suite.T(), err)
}

func (suite *BusinessRepoTestSuite) TestProviderCounts() {
	suite.mock.ExpectQuery(`SELECT provider, COUNT`).
		WithArgs(suite.datasetID).
		WillReturnRows(pgxmock.NewRows([]string{"provider", "count"}).
			AddRow("MTN", 12).
			AddRow("Vodacom", 7))

	counts, err := suite.repo.ProviderCounts(suite.context, suite.datasetID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]int{"MTN": 12, "Vodacom": 7}, counts)
}

func (suite *BusinessRepoTestSuite) TestBulkDelete_EmptyIsNoop() {
	err := suite.repo.BulkDelete(suite.context, nil)
	assert.NoError(suite.T(), err)
}

func (suite *BusinessRepoTestSuite) TestDeleteByDataset() {
	suite.mock.ExpectExec(`DELETE FROM businesses WHERE dataset_id`).
		WithArgs(suite.datasetID).
		WillReturnResult(pgxmock.NewResult("DELETE", 42))

	err := suite.repo.DeleteByDataset(suite.context, suite.datasetID)
	assert.NoError(suite.T(), err)
}

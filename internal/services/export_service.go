package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"leadscout/internal/common"
	"leadscout/internal/engine"
	"leadscout/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Businesses"

// exportURLExpiry is how long a generated download link stays valid.
const exportURLExpiry = 1 * time.Hour

type ExportService interface {
	ExportFiltered(ctx context.Context, datasetID uuid.UUID, criteria models.FilterCriteria) (string, int, error)
}

type exportService struct {
	businessService BusinessService
	storage         StorageService
}

func NewExportService(businessService BusinessService, storage StorageService) ExportService {
	return &exportService{
		businessService: businessService,
		storage:         storage,
	}
}

// ExportFiltered writes the currently visible subset to an XLSX workbook,
// stores it and returns a presigned download URL plus the row count.
func (s *exportService) ExportFiltered(ctx context.Context, datasetID uuid.UUID, criteria models.FilterCriteria) (string, int, error) {
	businesses, err := s.businessService.Filter(ctx, datasetID, criteria)
	if err != nil {
		return "", 0, err
	}

	data, err := buildWorkbook(businesses)
	if err != nil {
		return "", 0, err
	}

	objectName := fmt.Sprintf("%s/export_%s.xlsx", datasetID, time.Now().Format("20060102_150405"))
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := s.storage.UploadFile(ctx, ExportsBucket, objectName, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", 0, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ExportsBucket, objectName, exportURLExpiry)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign export URL: %w", err)
	}
	return url, len(businesses), nil
}

func buildWorkbook(businesses []*models.Business) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(exportSheetName)
	if err != nil {
		return nil, err
	}

	headers := []interface{}{
		"Name", "Address", "Phone", "Email", "Website", "Provider", "Category",
		"Town", "Province", "Latitude", "Longitude", "Status", "Phone Type",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return nil, err
	}

	for i, b := range businesses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			b.Name, b.Address, b.Phone, common.SafeString(b.Email), common.SafeString(b.Website),
			b.Provider, b.Category, b.Town, b.Province,
			b.Coordinates.Latitude, b.Coordinates.Longitude,
			b.Status, engine.EffectivePhoneType(b),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

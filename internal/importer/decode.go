package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"leadscout/internal/models"

	"github.com/xuri/excelize/v2"
)

// Structural import errors, reported before any per-row processing happens.
var (
	ErrNoRows            = errors.New("import file has no data rows")
	ErrNoColumns         = errors.New("import file has no columns")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// DecodeRows parses an uploaded file into raw rows keyed by column name.
// Format is chosen by file extension: .csv, .xlsx or .json. The returned
// column list is the sorted union of every column seen.
func DecodeRows(filename string, r io.Reader) ([]models.RawRow, []string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(r)
	case ".xlsx":
		return decodeXLSX(r)
	case ".json":
		return decodeJSON(r)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
}

func decodeCSV(r io.Reader) ([]models.RawRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoRows
	}

	headers := records[0]
	if len(headers) == 0 {
		return nil, nil, ErrNoColumns
	}
	if len(records) < 2 {
		return nil, nil, ErrNoRows
	}

	return tableToRows(headers, records[1:])
}

func decodeXLSX(r io.Reader) ([]models.RawRow, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoRows
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoRows
	}

	headers := records[0]
	if len(headers) == 0 {
		return nil, nil, ErrNoColumns
	}
	if len(records) < 2 {
		return nil, nil, ErrNoRows
	}

	return tableToRows(headers, records[1:])
}

func decodeJSON(r io.Reader) ([]models.RawRow, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		// A single object is accepted as a one-row import.
		var single models.RawRow
		if objErr := json.Unmarshal(data, &single); objErr != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		rows = []models.RawRow{single}
	}

	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	columnSet := make(map[string]bool)
	for _, row := range rows {
		for column := range row {
			columnSet[column] = true
		}
	}
	if len(columnSet) == 0 {
		return nil, nil, ErrNoColumns
	}

	return rows, sortedColumns(columnSet), nil
}

func tableToRows(headers []string, records [][]string) ([]models.RawRow, []string, error) {
	columnSet := make(map[string]bool)
	rows := make([]models.RawRow, 0, len(records))

	for _, record := range records {
		row := make(models.RawRow, len(headers))
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" || i >= len(record) {
				continue
			}
			row[header] = record[i]
			columnSet[header] = true
		}
		rows = append(rows, row)
	}

	if len(columnSet) == 0 {
		return nil, nil, ErrNoColumns
	}
	return rows, sortedColumns(columnSet), nil
}

func sortedColumns(set map[string]bool) []string {
	columns := make([]string, 0, len(set))
	for column := range set {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

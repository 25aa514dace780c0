package models

import (
	"github.com/google/uuid"
)

// RawRow is one decoded spreadsheet/JSON row: source column name to raw cell
// value. Values are strings or numbers as decoded; missing columns are simply
// absent.
type RawRow map[string]interface{}

// ColumnMapping binds each canonical business field to a source column name.
// An empty string means the field was left unmapped and takes its default.
type ColumnMapping struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Provider string `json:"provider,omitempty"`
	Category string `json:"category,omitempty"`
	Town     string `json:"town,omitempty"`
	Province string `json:"province,omitempty"`
	Lat      string `json:"lat,omitempty"`
	Lng      string `json:"lng,omitempty"`
	Status   string `json:"status,omitempty"`
	MapsLink string `json:"maps_link,omitempty"`
}

// Import modes: replace drops the dataset's existing records first, append
// adds to them.
const (
	ImportModeReplace = "replace"
	ImportModeAppend  = "append"
)

// ImportPreview is returned after upload, before the user confirms a mapping.
type ImportPreview struct {
	UploadID   uuid.UUID `json:"upload_id"`
	Columns    []string  `json:"columns"`
	SampleRows []RawRow  `json:"sample_rows"`
	RowCount   int       `json:"row_count"`
}

// ImportResult summarizes a committed import.
type ImportResult struct {
	DatasetID       uuid.UUID `json:"dataset_id"`
	RecordsImported int       `json:"records_imported"`
	Mode            string    `json:"mode"`
}

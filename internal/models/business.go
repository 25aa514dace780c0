package models

import (
	"time"

	"github.com/google/uuid"
)

// Business statuses follow the lead lifecycle: a freshly imported lead is
// active until a rep marks it otherwise.
const (
	StatusActive    = "active"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusInactive  = "inactive"
)

// Phone types for the landline/mobile classification.
const (
	PhoneTypeLandline = "landline"
	PhoneTypeMobile   = "mobile"
)

// Coordinates is a WGS84 point. Every business carries one; records without
// usable location data get the home-region default at import time.
type Coordinates struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Note is a timestamped free-text entry attached to a business.
type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Category  string    `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Metadata holds the well-known optional lead attributes plus an open
// extension map for anything else the source spreadsheet carried.
type Metadata struct {
	InterestLevel *string           `json:"interest_level,omitempty"`
	IssueFlag     *string           `json:"issue_flag,omitempty"`
	Tenure        *string           `json:"tenure,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

type Business struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	DatasetID         uuid.UUID   `json:"dataset_id" db:"dataset_id"`
	Name              string      `json:"name" db:"name"`
	Address           string      `json:"address" db:"address"`
	Phone             string      `json:"phone" db:"phone"`
	Email             *string     `json:"email,omitempty" db:"email"`
	Website           *string     `json:"website,omitempty" db:"website"`
	Provider          string      `json:"provider" db:"provider"`
	Category          string      `json:"category" db:"category"`
	Town              string      `json:"town" db:"town"`
	Province          string      `json:"province" db:"province"`
	Coordinates       Coordinates `json:"coordinates"`
	Status            string      `json:"status" db:"status"`
	PhoneTypeOverride *string     `json:"phone_type_override,omitempty" db:"phone_type_override"`
	Notes             []Note      `json:"notes,omitempty"`
	Metadata          Metadata    `json:"metadata"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// ValidStatus reports whether s is one of the recognized lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusContacted, StatusConverted, StatusInactive:
		return true
	}
	return false
}

package importer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"leadscout/internal/models"

	"github.com/google/uuid"
)

// Default coordinate for records with no usable location data: the home
// region centroid (Klerksdorp, North West).
const (
	DefaultLatitude  = -26.8521
	DefaultLongitude = 26.6667
)

// defaultChunkSize keeps per-chunk work small enough that callers can report
// progress and observe cancellation at a reasonable cadence on imports of
// several thousand rows.
const defaultChunkSize = 250

// ProgressFunc is invoked after each processed chunk with the number of rows
// mapped so far and the total row count.
type ProgressFunc func(processed, total int)

// Mapper converts decoded spreadsheet rows into normalized business records.
type Mapper struct {
	chunkSize int
}

func NewMapper() *Mapper {
	return &Mapper{chunkSize: defaultChunkSize}
}

// MapRows produces exactly one business per input row, in input order.
// Malformed cells never fail the import: every field degrades independently
// to its documented default. Only a structurally empty row set is an error.
func (m *Mapper) MapRows(ctx context.Context, datasetID uuid.UUID, rows []models.RawRow, mapping models.ColumnMapping, progress ProgressFunc) ([]*models.Business, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("import contains no rows")
	}

	businesses := make([]*models.Business, 0, len(rows))
	total := len(rows)

	for start := 0; start < total; start += m.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + m.chunkSize
		if end > total {
			end = total
		}

		for i := start; i < end; i++ {
			businesses = append(businesses, m.mapRow(datasetID, rows[i], mapping, i))
		}

		if progress != nil {
			progress(end, total)
		}
	}

	return businesses, nil
}

func (m *Mapper) mapRow(datasetID uuid.UUID, row models.RawRow, mapping models.ColumnMapping, index int) *models.Business {
	b := &models.Business{
		ID:        uuid.New(),
		DatasetID: datasetID,
		Name:      cellString(row, mapping.Name),
		Address:   cellString(row, mapping.Address),
		Phone:     cellString(row, mapping.Phone),
		Provider:  NormalizeProvider(cellString(row, mapping.Provider)),
		Category:  cellString(row, mapping.Category),
		Town:      cellString(row, mapping.Town),
		Province:  cellString(row, mapping.Province),
		Status:    NormalizeStatus(cellString(row, mapping.Status)),
	}

	if b.Name == "" {
		b.Name = fmt.Sprintf("Business %d", index+1)
	}
	if b.Provider == "" {
		b.Provider = "Unknown"
	}
	if b.Category == "" {
		b.Category = "General"
	}
	if b.Town == "" {
		b.Town = "Unknown"
	}

	if email := cellString(row, mapping.Email); email != "" {
		b.Email = &email
	}
	if website := cellString(row, mapping.Website); website != "" {
		b.Website = &website
	}

	b.Coordinates = m.resolveCoordinates(row, mapping)
	b.Metadata = collectMetadata(row, mapping)

	return b
}

// resolveCoordinates derives a coordinate pair in priority order: explicit
// lat/lng columns, then the maps-link URL, then the home-region default.
func (m *Mapper) resolveCoordinates(row models.RawRow, mapping models.ColumnMapping) models.Coordinates {
	if mapping.Lat != "" && mapping.Lng != "" {
		lat, latErr := parseCoord(cellString(row, mapping.Lat))
		lng, lngErr := parseCoord(cellString(row, mapping.Lng))
		if latErr == nil && lngErr == nil {
			return models.Coordinates{Latitude: lat, Longitude: lng}
		}
	}

	if mapping.MapsLink != "" {
		if link := cellString(row, mapping.MapsLink); link != "" {
			if coords, ok := ExtractCoordinates(link); ok {
				return coords
			}
		}
	}

	return models.Coordinates{Latitude: DefaultLatitude, Longitude: DefaultLongitude}
}

// NormalizeProvider strips surrounding whitespace and trailing periods from a
// raw provider cell. Spreadsheets exported from the field frequently carry
// artifacts like "MTN..".
func NormalizeProvider(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".")
	return strings.TrimSpace(s)
}

// NormalizeStatus lowercases the raw status and keeps it only if it is a
// recognized non-default lifecycle tag; anything else becomes active.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.StatusContacted:
		return models.StatusContacted
	case models.StatusConverted:
		return models.StatusConverted
	case models.StatusInactive:
		return models.StatusInactive
	}
	return models.StatusActive
}

// Maps-link extraction patterns, in priority order. The first pattern that
// matches wins.
var coordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@(-?\d+\.?\d*),(-?\d+\.?\d*)`),
	regexp.MustCompile(`!3d(-?\d+\.?\d*)!4d(-?\d+\.?\d*)`),
	regexp.MustCompile(`[?&](?:q|ll)=(-?\d+\.?\d*),(-?\d+\.?\d*)`),
	regexp.MustCompile(`(-?\d{1,2}\.\d+),\s*(-?\d{1,3}\.\d+)`),
}

// ExtractCoordinates pulls a lat/lng pair out of a map-link URL. Matches are
// validated against plausible ranges so street numbers and zoom levels in the
// URL cannot masquerade as coordinates.
func ExtractCoordinates(link string) (models.Coordinates, bool) {
	for _, pattern := range coordPatterns {
		match := pattern.FindStringSubmatch(link)
		if match == nil {
			continue
		}
		lat, latErr := strconv.ParseFloat(match[1], 64)
		lng, lngErr := strconv.ParseFloat(match[2], 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}
		return models.Coordinates{Latitude: lat, Longitude: lng}, true
	}
	return models.Coordinates{}, false
}

// parseCoord parses a coordinate cell, tolerating comma decimal separators.
func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty coordinate")
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("coordinate is not finite")
	}
	return f, nil
}

// collectMetadata gathers columns the mapping did not claim into the open
// extension map, promoting the small set of well-known lead attributes.
func collectMetadata(row models.RawRow, mapping models.ColumnMapping) models.Metadata {
	mapped := map[string]bool{
		mapping.Name: true, mapping.Address: true, mapping.Phone: true,
		mapping.Email: true, mapping.Website: true, mapping.Provider: true,
		mapping.Category: true, mapping.Town: true, mapping.Province: true,
		mapping.Lat: true, mapping.Lng: true, mapping.Status: true,
		mapping.MapsLink: true,
	}

	meta := models.Metadata{}
	for column, value := range row {
		if mapped[column] {
			continue
		}
		text := rawToString(value)
		if text == "" {
			continue
		}
		switch key := strings.ToLower(strings.TrimSpace(column)); {
		case strings.Contains(key, "interest"):
			v := text
			meta.InterestLevel = &v
		case strings.Contains(key, "issue"):
			v := text
			meta.IssueFlag = &v
		case strings.Contains(key, "tenure"):
			v := text
			meta.Tenure = &v
		default:
			if meta.Extra == nil {
				meta.Extra = make(map[string]string)
			}
			meta.Extra[column] = text
		}
	}
	return meta
}

func cellString(row models.RawRow, column string) string {
	if column == "" {
		return ""
	}
	value, ok := row[column]
	if !ok {
		return ""
	}
	return strings.TrimSpace(rawToString(value))
}

func rawToString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

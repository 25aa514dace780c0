package models

import (
	"time"

	"github.com/google/uuid"
)

// Route is a planned visit sequence over businesses.
type Route struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RouteItem is one stop in a route. Position values are kept dense (0..n-1):
// every insert and delete re-sequences the route, so two items never share a
// position.
type RouteItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	RouteID    uuid.UUID `json:"route_id" db:"route_id"`
	BusinessID uuid.UUID `json:"business_id" db:"business_id"`
	Position   int       `json:"position" db:"position"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
}

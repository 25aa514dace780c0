package repositories

import (
	"context"
	"fmt"

	"leadscout/internal/models"

	"github.com/google/uuid"
)

type RouteRepository interface {
	CreateRoute(ctx context.Context, route *models.Route) error
	GetRoute(ctx context.Context, id uuid.UUID) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]*models.Route, error)
	DeleteRoute(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, item *models.RouteItem) error
	RemoveItem(ctx context.Context, routeID, itemID uuid.UUID) error
	ListItems(ctx context.Context, routeID uuid.UUID) ([]*models.RouteItem, error)
	UpdateItemPosition(ctx context.Context, itemID uuid.UUID, position int) error
	Resequence(ctx context.Context, routeID uuid.UUID) error
	DeleteItemsForBusiness(ctx context.Context, businessID uuid.UUID) error
	NextPosition(ctx context.Context, routeID uuid.UUID) (int, error)
}

type routeRepo struct {
	db Database
}

func NewRouteRepo(db Database) RouteRepository {
	return &routeRepo{db: db}
}

func (r *routeRepo) CreateRoute(ctx context.Context, route *models.Route) error {
	query := `
		INSERT INTO routes (id, name, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := r.db.Exec(ctx, query, route.ID, route.Name)
	return err
}

func (r *routeRepo) GetRoute(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	route := &models.Route{}
	query := `SELECT id, name, created_at FROM routes WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&route.ID, &route.Name, &route.CreatedAt)
	if err != nil {
		return nil, err
	}
	return route, nil
}

func (r *routeRepo) ListRoutes(ctx context.Context) ([]*models.Route, error) {
	query := `SELECT id, name, created_at FROM routes ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*models.Route
	for rows.Next() {
		route := &models.Route{}
		if err := rows.Scan(&route.ID, &route.Name, &route.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *routeRepo) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM routes WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *routeRepo) AddItem(ctx context.Context, item *models.RouteItem) error {
	query := `
		INSERT INTO route_items (id, route_id, business_id, position, added_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.RouteID, item.BusinessID, item.Position)
	return err
}

func (r *routeRepo) RemoveItem(ctx context.Context, routeID, itemID uuid.UUID) error {
	query := `DELETE FROM route_items WHERE route_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, routeID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("route item %s not found", itemID)
	}
	return nil
}

func (r *routeRepo) ListItems(ctx context.Context, routeID uuid.UUID) ([]*models.RouteItem, error) {
	// Ties on position cannot normally occur (positions are re-sequenced on
	// every mutation) but added_at keeps the order deterministic regardless.
	query := `
		SELECT id, route_id, business_id, position, added_at
		FROM route_items
		WHERE route_id = $1
		ORDER BY position, added_at
	`
	rows, err := r.db.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.RouteItem
	for rows.Next() {
		item := &models.RouteItem{}
		if err := rows.Scan(&item.ID, &item.RouteID, &item.BusinessID, &item.Position, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *routeRepo) UpdateItemPosition(ctx context.Context, itemID uuid.UUID, position int) error {
	query := `UPDATE route_items SET position = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, position, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("route item %s not found", itemID)
	}
	return nil
}

// Resequence rewrites positions to a dense 0..n-1 run ordered by the current
// position with added_at as tie-break.
func (r *routeRepo) Resequence(ctx context.Context, routeID uuid.UUID) error {
	query := `
		UPDATE route_items
		SET position = ranked.new_position
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position, added_at) - 1 AS new_position
			FROM route_items
			WHERE route_id = $1
		) AS ranked
		WHERE route_items.id = ranked.id
	`
	_, err := r.db.Exec(ctx, query, routeID)
	return err
}

func (r *routeRepo) DeleteItemsForBusiness(ctx context.Context, businessID uuid.UUID) error {
	query := `DELETE FROM route_items WHERE business_id = $1`
	_, err := r.db.Exec(ctx, query, businessID)
	return err
}

func (r *routeRepo) NextPosition(ctx context.Context, routeID uuid.UUID) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(position) + 1, 0) FROM route_items WHERE route_id = $1`
	err := r.db.QueryRow(ctx, query, routeID).Scan(&next)
	return next, err
}

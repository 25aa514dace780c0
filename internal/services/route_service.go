package services

import (
	"context"
	"errors"

	"leadscout/internal/models"
	"leadscout/internal/repositories"

	"github.com/google/uuid"
)

type RouteService interface {
	CreateRoute(ctx context.Context, name string) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]*models.Route, error)
	DeleteRoute(ctx context.Context, id uuid.UUID) error
	AddStop(ctx context.Context, routeID, businessID uuid.UUID) (*models.RouteItem, error)
	RemoveStop(ctx context.Context, routeID, itemID uuid.UUID) error
	ListStops(ctx context.Context, routeID uuid.UUID) ([]*models.RouteItem, error)
	MoveStop(ctx context.Context, routeID, itemID uuid.UUID, position int) error
}

type routeService struct {
	routeRepo    repositories.RouteRepository
	businessRepo repositories.BusinessRepository
}

func NewRouteService(routeRepo repositories.RouteRepository, businessRepo repositories.BusinessRepository) RouteService {
	return &routeService{
		routeRepo:    routeRepo,
		businessRepo: businessRepo,
	}
}

func (s *routeService) CreateRoute(ctx context.Context, name string) (*models.Route, error) {
	if name == "" {
		return nil, errors.New("route name is required")
	}
	route := &models.Route{
		ID:   uuid.New(),
		Name: name,
	}
	if err := s.routeRepo.CreateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *routeService) ListRoutes(ctx context.Context) ([]*models.Route, error) {
	return s.routeRepo.ListRoutes(ctx)
}

func (s *routeService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	return s.routeRepo.DeleteRoute(ctx, id)
}

// AddStop appends the business at the end of the route. Positions stay dense
// because new stops take MAX(position)+1 and removals re-sequence.
func (s *routeService) AddStop(ctx context.Context, routeID, businessID uuid.UUID) (*models.RouteItem, error) {
	if _, err := s.routeRepo.GetRoute(ctx, routeID); err != nil {
		return nil, err
	}
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, err
	}

	position, err := s.routeRepo.NextPosition(ctx, routeID)
	if err != nil {
		return nil, err
	}

	item := &models.RouteItem{
		ID:         uuid.New(),
		RouteID:    routeID,
		BusinessID: businessID,
		Position:   position,
	}
	if err := s.routeRepo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *routeService) RemoveStop(ctx context.Context, routeID, itemID uuid.UUID) error {
	if err := s.routeRepo.RemoveItem(ctx, routeID, itemID); err != nil {
		return err
	}
	return s.routeRepo.Resequence(ctx, routeID)
}

func (s *routeService) ListStops(ctx context.Context, routeID uuid.UUID) ([]*models.RouteItem, error) {
	return s.routeRepo.ListItems(ctx, routeID)
}

// MoveStop places the item at the requested position and re-sequences, so a
// move never leaves a gap or a duplicate position behind.
func (s *routeService) MoveStop(ctx context.Context, routeID, itemID uuid.UUID, position int) error {
	if position < 0 {
		return errors.New("position cannot be negative")
	}

	items, err := s.routeRepo.ListItems(ctx, routeID)
	if err != nil {
		return err
	}

	var target *models.RouteItem
	rest := make([]*models.RouteItem, 0, len(items))
	for _, item := range items {
		if item.ID == itemID {
			target = item
		} else {
			rest = append(rest, item)
		}
	}
	if target == nil {
		return errors.New("route item not found")
	}

	if position > len(rest) {
		position = len(rest)
	}

	ordered := make([]*models.RouteItem, 0, len(items))
	ordered = append(ordered, rest[:position]...)
	ordered = append(ordered, target)
	ordered = append(ordered, rest[position:]...)

	for i, item := range ordered {
		if item.Position == i {
			continue
		}
		if err := s.routeRepo.UpdateItemPosition(ctx, item.ID, i); err != nil {
			return err
		}
	}
	return nil
}

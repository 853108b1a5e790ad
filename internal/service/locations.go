package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// AnywhereGroupName labels the group of tasks without a location.
const AnywhereGroupName = "Anywhere"

// LocationInput is a picked or searched place.
type LocationInput struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Coordinate returns the input's position.
func (in LocationInput) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: in.Lat, Lng: in.Lng}
}

// ListLocations returns the user's locations ordered by name.
func (s *Service) ListLocations(ctx context.Context, userID string) ([]model.Location, error) {
	locations, err := s.store.GetLocations(ctx, userID)
	if err != nil {
		return nil, s.fail("listing locations", err, "user", userID)
	}
	return locations, nil
}

// ListLocationsWithTasks returns an "Anywhere" group of tasks without a
// location followed by each location and its tasks.
func (s *Service) ListLocationsWithTasks(ctx context.Context, userID string) ([]model.LocationGroup, error) {
	groups, err := s.store.GetLocationsWithTasks(ctx, userID)
	if err != nil {
		return nil, s.fail("listing locations with tasks", err, "user", userID)
	}
	anywhere, err := s.store.GetTasks(ctx, userID, store.TaskFilter{WithoutLocation: true})
	if err != nil {
		return nil, s.fail("listing locations with tasks", err, "user", userID)
	}

	return append([]model.LocationGroup{{
		ID:    model.AnywhereGroupID,
		Name:  AnywhereGroupName,
		Tasks: anywhere,
	}}, groups...), nil
}

// CreateLocation returns the user's existing location within tolerance of
// the input, or stores a new one.
func (s *Service) CreateLocation(ctx context.Context, userID string, in LocationInput) (*model.Location, error) {
	location, created, err := s.ensureLocation(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if created {
		s.invalidate(ctx, userID, views.Locations)
	}
	return location, nil
}

func (s *Service) ensureLocation(ctx context.Context, userID string, in LocationInput) (*model.Location, bool, error) {
	c := in.Coordinate()
	if !c.Valid() {
		return nil, false, invalid("Invalid coordinates")
	}

	existing, err := s.store.FindLocationNear(ctx, userID, c)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, s.fail("finding location", err, "user", userID)
	}

	name := strings.TrimSpace(in.Address)
	if name == "" {
		name = geo.FormatCoordinate(c)
	}
	location := &model.Location{
		UserID:    userID,
		Name:      name,
		Latitude:  c.Lat,
		Longitude: c.Lng,
		Radius:    model.DefaultLocationRadius,
	}
	if err := s.store.CreateLocation(ctx, location); err != nil {
		return nil, false, s.fail("creating location", err, "user", userID)
	}
	return location, true, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
)

const locationColumns = "location_id, user_id, location_name, latitude, longitude, radius, created_at"

// GetLocations retrieves the user's locations ordered by name.
func (s *SQLStore) GetLocations(ctx context.Context, userID string) ([]model.Location, error) {
	locations := []model.Location{}
	err := s.db.SelectContext(ctx, &locations, s.q(
		"SELECT "+locationColumns+" FROM locations WHERE user_id = ? ORDER BY location_name"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	return locations, nil
}

// GetLocationsWithTasks retrieves the user's locations with their tasks
// attached. Tasks without a location are not included.
func (s *SQLStore) GetLocationsWithTasks(ctx context.Context, userID string) ([]model.LocationGroup, error) {
	locations, err := s.GetLocations(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.GetTasks(ctx, userID, TaskFilter{})
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string][]model.Task, len(locations))
	for _, t := range tasks {
		if t.LocationID != nil {
			byLocation[*t.LocationID] = append(byLocation[*t.LocationID], t)
		}
	}

	groups := make([]model.LocationGroup, 0, len(locations))
	for _, l := range locations {
		lat, lng := l.Latitude, l.Longitude
		group := model.LocationGroup{
			ID:        l.ID,
			Name:      l.Name,
			Latitude:  &lat,
			Longitude: &lng,
			Radius:    l.Radius,
			Tasks:     byLocation[l.ID],
		}
		if group.Tasks == nil {
			group.Tasks = []model.Task{}
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// FindLocationNear returns the user's oldest location whose latitude and
// longitude are both within geo.ToleranceDegrees of c.
func (s *SQLStore) FindLocationNear(ctx context.Context, userID string, c geo.Coordinate) (*model.Location, error) {
	var location model.Location
	err := s.db.GetContext(ctx, &location, s.q(`
		SELECT `+locationColumns+` FROM locations
		WHERE user_id = ?
			AND latitude BETWEEN ? AND ?
			AND longitude BETWEEN ? AND ?
		ORDER BY created_at, location_id
		LIMIT 1`),
		userID,
		c.Lat-geo.ToleranceDegrees, c.Lat+geo.ToleranceDegrees,
		c.Lng-geo.ToleranceDegrees, c.Lng+geo.ToleranceDegrees,
	)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding location near %s: %w", c, err)
	}
	return &location, nil
}

// CreateLocation inserts a new location.
func (s *SQLStore) CreateLocation(ctx context.Context, location *model.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	if location.CreatedAt.IsZero() {
		location.CreatedAt = time.Now().UTC()
	}
	if location.Radius == 0 {
		location.Radius = model.DefaultLocationRadius
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO locations (location_id, user_id, location_name, latitude, longitude, radius, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		location.ID, location.UserID, location.Name,
		location.Latitude, location.Longitude, location.Radius, location.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating location: %w", err)
	}
	return nil
}

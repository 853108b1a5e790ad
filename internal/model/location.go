package model

import (
	"time"

	"github.com/nhle/lacquer/internal/geo"
)

// DefaultLocationRadius is the radius in meters given to new locations.
// It is informational; the nearby filter always uses geo.ProximityRadiusMeters.
const DefaultLocationRadius = 100

// Location is a user-owned named point.
type Location struct {
	ID        string    `json:"location_id" db:"location_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"location_name" db:"location_name"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Radius    int       `json:"radius" db:"radius"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Coordinate returns the location's position.
func (l Location) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: l.Latitude, Lng: l.Longitude}
}

// LocationRef is the location projection attached to a task.
type LocationRef struct {
	ID        string  `json:"location_id"`
	Name      string  `json:"location_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the referenced position.
func (l LocationRef) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: l.Latitude, Lng: l.Longitude}
}

// AnywhereGroupID identifies the synthetic group of tasks without a location.
const AnywhereGroupID = "anywhere"

// LocationGroup is a location together with its tasks. The "Anywhere"
// group has no coordinates.
type LocationGroup struct {
	ID        string   `json:"location_id"`
	Name      string   `json:"location_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    int      `json:"radius"`
	Tasks     []Task   `json:"tasks"`
}

// Package geo holds the coordinate math shared by the store, the list
// engine and the map adapter.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by Distance.
	EarthRadiusMeters = 6371000.0

	// ProximityRadiusMeters is the fixed radius of the "nearby" filter.
	// A location's stored radius does not change it.
	ProximityRadiusMeters = 100.0

	// ToleranceDegrees is the per-axis window (~11 m) inside which two
	// coordinates are treated as the same place.
	ToleranceDegrees = 0.0001
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c lies inside the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String renders c with FormatCoordinate.
func (c Coordinate) String() string {
	return FormatCoordinate(c)
}

// FormatCoordinate renders c as "lat, lng" with six decimals, the text
// used when an address cannot be resolved.
func FormatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Distance returns the great-circle distance between a and b in meters
// using the Haversine formula.
func Distance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Nearby reports whether b is within ProximityRadiusMeters of a.
func Nearby(a, b Coordinate) bool {
	return Distance(a, b) <= ProximityRadiusMeters
}

// WithinTolerance reports whether a and b fall inside the deduplication window
// on both axes.
func WithinTolerance(a, b Coordinate) bool {
	return math.Abs(a.Lat-b.Lat) <= ToleranceDegrees &&
		math.Abs(a.Lng-b.Lng) <= ToleranceDegrees
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

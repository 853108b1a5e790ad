package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhle/lacquer/internal/geo"
)

// ErrNoResults is returned when the provider found nothing.
var ErrNoResults = errors.New("no geocoding results")

// Forward returns candidate places for a typed address.
func (c *Client) Forward(ctx context.Context, address string) ([]Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return []Place{}, nil
	}

	results, err := c.lookup(ctx, url.Values{"address": {address}})
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", address, err)
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		places = append(places, r.place())
	}
	return places, nil
}

// Reverse returns the formatted address of the best match for c.
func (c *Client) Reverse(ctx context.Context, coord geo.Coordinate) (string, error) {
	latlng := strconv.FormatFloat(coord.Lat, 'f', 6, 64) + "," +
		strconv.FormatFloat(coord.Lng, 'f', 6, 64)

	results, err := c.lookup(ctx, url.Values{"latlng": {latlng}})
	if err != nil {
		return "", fmt.Errorf("reverse geocoding %s: %w", latlng, err)
	}
	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", ErrNoResults
	}
	return results[0].FormattedAddress, nil
}

// ReverseOrCoordinates returns the address for coord, or the coordinate
// text when the lookup fails for any reason.
func (c *Client) ReverseOrCoordinates(ctx context.Context, coord geo.Coordinate) string {
	address, err := c.Reverse(ctx, coord)
	if err != nil {
		return geo.FormatCoordinate(coord)
	}
	return address
}

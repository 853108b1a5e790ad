package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nhle/lacquer/internal/geo"
)

// LocateTimeout bounds a position lookup. There is no retry.
const LocateTimeout = 10 * time.Second

// Locator finds the caller's approximate position from an IP geolocation
// endpoint returning {"lat": .., "lon": ..}.
type Locator struct {
	url        string
	httpClient *http.Client
}

// NewLocator creates a Locator for the given endpoint.
func NewLocator(endpoint string) *Locator {
	return &Locator{
		url:        endpoint,
		httpClient: &http.Client{Timeout: LocateTimeout},
	}
}

type locateResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Locate performs a single position lookup.
func (l *Locator) Locate(ctx context.Context) (geo.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, LocateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("creating locate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("locating: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return geo.Coordinate{}, fmt.Errorf("locating: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out locateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return geo.Coordinate{}, fmt.Errorf("decoding locate response: %w", err)
	}
	if out.Status != "" && out.Status != "success" {
		return geo.Coordinate{}, fmt.Errorf("locating: %s %s", out.Status, out.Message)
	}
	if out.Lat == nil || out.Lon == nil {
		return geo.Coordinate{}, fmt.Errorf("locating: response has no coordinates")
	}

	c := geo.Coordinate{Lat: *out.Lat, Lng: *out.Lon}
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("locating: invalid coordinates %s", c)
	}
	return c, nil
}

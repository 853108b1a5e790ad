// Package geocode talks to a Google-Maps-compatible geocoding API and an
// IP geolocation endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AuthError indicates the provider rejected the API key.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("geocoding auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// errRateLimited marks a response that should be retried after a wait.
var errRateLimited = errors.New("rate limited")

// Client is a thin HTTP client for the geocoding API. It handles API key
// authentication, JSON decoding and retry with exponential backoff on
// HTTP 429 or an OVER_QUERY_LIMIT status.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// NewClient creates a geocoding client. baseURL is the full JSON endpoint,
// e.g. https://maps.googleapis.com/maps/api/geocode/json.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries:  3,
		baseBackoff: time.Second,
	}
}

// Place is one geocoding result.
type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID string  `json:"place_id,omitempty"`
}

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string `json:"formatted_address"`
	PlaceID          string `json:"place_id"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

func (r result) place() Place {
	return Place{
		Address: r.FormattedAddress,
		Lat:     r.Geometry.Location.Lat,
		Lng:     r.Geometry.Location.Lng,
		PlaceID: r.PlaceID,
	}
}

// lookup performs one geocoding query with retries and returns its results.
func (c *Client) lookup(ctx context.Context, params url.Values) ([]result, error) {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, wait, err := c.get(ctx, endpoint, attempt)
		if errors.Is(err, errRateLimited) {
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
				continue
			}
		}
		if err != nil {
			return nil, err
		}

		switch resp.Status {
		case "OK", "ZERO_RESULTS":
			return resp.Results, nil
		case "REQUEST_DENIED":
			return nil, &AuthError{Message: resp.ErrorMessage}
		default:
			return nil, fmt.Errorf("geocoding status %s: %s", resp.Status, resp.ErrorMessage)
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string, attempt int) (*response, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing geocoding request: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", readErr)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, c.retryAfterDuration(resp, attempt), errRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, 0, &AuthError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling geocoding response: %w", err)
	}
	if out.Status == "OVER_QUERY_LIMIT" {
		return nil, c.retryAfterDuration(resp, attempt), errRateLimited
	}
	return &out, 0, nil
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func (c *Client) retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := c.baseBackoff * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nhle/lacquer/internal/geo"
)

const okBody = `{
	"status": "OK",
	"results": [{
		"formatted_address": "1 Market St, San Francisco, CA",
		"place_id": "abc",
		"geometry": {"location": {"lat": 37.7936, "lng": -122.3952}}
	}]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-key", time.Second)
	c.baseBackoff = time.Millisecond
	return c
}

func TestForward(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "1 Market St" {
			t.Errorf("address = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(okBody))
	})

	places, err := c.Forward(context.Background(), " 1 Market St ")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("got %d places, want 1", len(places))
	}
	if places[0].Lat != 37.7936 || places[0].Address != "1 Market St, San Francisco, CA" {
		t.Errorf("unexpected place %+v", places[0])
	}
}

func TestForwardEmptyAddress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty address")
	})
	places, err := c.Forward(context.Background(), "  ")
	if err != nil || len(places) != 0 {
		t.Errorf("Forward(\"\") = %v, %v", places, err)
	}
}

func TestReverse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got != "37.793600,-122.395200" {
			t.Errorf("latlng = %q", got)
		}
		w.Write([]byte(okBody))
	})

	addr, err := c.Reverse(context.Background(), geo.Coordinate{Lat: 37.7936, Lng: -122.3952})
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if addr != "1 Market St, San Francisco, CA" {
		t.Errorf("address = %q", addr)
	}
}

func TestReverseOrCoordinatesFallsBack(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"zero results", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"denied", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.h)
			got := c.ReverseOrCoordinates(context.Background(), geo.Coordinate{Lat: 1.5, Lng: -2.25})
			if got != "1.500000, -2.250000" {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"request denied", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
		}},
		{"403", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.h)
			_, err := c.Forward(context.Background(), "x")
			if !IsAuthError(err) {
				t.Errorf("expected AuthError, got %v", err)
			}
		})
	}
}

func TestRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
		default:
			w.Write([]byte(okBody))
		}
	})

	places, err := c.Forward(context.Background(), "x")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if len(places) != 1 {
		t.Errorf("got %d places", len(places))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRetriesExhausted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := c.Forward(context.Background(), "x"); err == nil {
		t.Error("expected error after retries")
	}
}

func TestLocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":37.77,"lon":-122.42}`))
	}))
	defer srv.Close()

	c, err := NewLocator(srv.URL).Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if c.Lat != 37.77 || c.Lng != -122.42 {
		t.Errorf("got %+v", c)
	}
}

func TestLocatorFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"fail status", `{"status":"fail","message":"private range"}`, 200},
		{"no coords", `{"status":"success"}`, 200},
		{"http error", `oops`, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewLocator(srv.URL).Locate(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestStore(t *testing.T) {
	s := New(keyring.NewArrayKeyring(nil))

	if _, err := s.Get(KeySessionToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(KeySessionToken, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(KeySessionToken)
	if err != nil || got != "tok" {
		t.Fatalf("Get = %q, %v; want tok", got, err)
	}

	if err := s.Delete(KeySessionToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(KeySessionToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	s := New(keyring.NewArrayKeyring([]keyring.Item{
		{Key: KeyJWTSecret, Data: []byte("from-ring")},
	}))

	tests := []struct {
		name       string
		configured string
		key        string
		want       string
	}{
		{"config wins", "from-config", KeyJWTSecret, "from-config"},
		{"keyring fallback", "", KeyJWTSecret, "from-ring"},
		{"missing is empty", "", KeyGeocodingAPIKey, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Lookup(tt.configured, tt.key)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

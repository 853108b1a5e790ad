package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database.driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Geocoding.TimeoutSec != 10 {
		t.Errorf("geocoding.timeout_sec = %d, want 10", cfg.Geocoding.TimeoutSec)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  addr: \":9090\"\nlog:\n  level: debug\nauth:\n  jwt_secret: from-file\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LACQUER_AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want default text", cfg.Log.Format)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("auth.jwt_secret = %q, want from-env", cfg.Auth.JWTSecret)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://localhost/lacquer"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Database.Driver != "postgres" || got.Database.DSN != cfg.Database.DSN {
		t.Errorf("database = %+v, want %+v", got.Database, cfg.Database)
	}
}

func TestLocationTimeLocation(t *testing.T) {
	loc, err := LocationConfig{}.TimeLocation()
	if err != nil {
		t.Fatalf("TimeLocation: %v", err)
	}
	if loc != time.Local {
		t.Errorf("empty timezone = %v, want Local", loc)
	}

	if _, err := (LocationConfig{Timezone: "Mars/Olympus_Mons"}).TimeLocation(); err == nil {
		t.Error("expected an error for an unknown zone")
	}

	t.Setenv("LACQUER_LOCATION_TIMEZONE", "UTC")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	loc, err = cfg.Location.TimeLocation()
	if err != nil {
		t.Fatalf("TimeLocation: %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("timezone = %v, want UTC", loc)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"HIGH", PriorityHigh, true},
		{"medium", PriorityMedium, true},
		{" low ", PriorityLow, true},
		{"URGENT", PriorityNone, false},
		{"", PriorityNone, false},
	}
	for _, tt := range tests {
		got, ok := ParsePriority(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

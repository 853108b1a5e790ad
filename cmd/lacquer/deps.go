package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/lacquer/internal/auth"
	"github.com/nhle/lacquer/internal/credential"
	"github.com/nhle/lacquer/internal/geocode"
	"github.com/nhle/lacquer/internal/logging"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/store"
	"github.com/nhle/lacquer/internal/views"
)

// openStore opens the configured database, creating the directory of a
// SQLite file when needed.
func openStore() (*store.SQLStore, error) {
	driver, dsn := cfg.Database.Driver, cfg.Database.DSN
	if driver == store.DriverSQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return store.Open(driver, dsn)
}

// newService builds the service over st with due dates read in the
// configured zone.
func newService(st *store.SQLStore, logger *log.Logger) (*service.Service, *views.Tracker, error) {
	loc, err := cfg.Location.TimeLocation()
	if err != nil {
		return nil, nil, err
	}
	tracker := views.NewTracker(st)
	return service.New(st, tracker, logger, service.WithLocation(loc)), tracker, nil
}

func newLogger(w io.Writer) (*log.Logger, error) {
	return logging.New(cfg.Log, w)
}

// secret returns configured when set, otherwise the keyring value under key.
func secret(configured, key string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	creds, err := credential.Open()
	if err != nil {
		return "", err
	}
	return creds.Lookup("", key)
}

func jwtSecret() (string, error) {
	s, err := secret(cfg.Auth.JWTSecret, credential.KeyJWTSecret)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("no JWT secret: set auth.jwt_secret, LACQUER_AUTH_JWT_SECRET or store %q in the keyring", credential.KeyJWTSecret)
	}
	return s, nil
}

func newVerifier() (*auth.Verifier, error) {
	s, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	return auth.NewVerifier(s, cfg.Auth.Issuer, cfg.Auth.Audience)
}

// newGeocoder returns nil when no API key is available.
func newGeocoder(logger *log.Logger) *geocode.Client {
	key, err := secret(cfg.Geocoding.APIKey, credential.KeyGeocodingAPIKey)
	if err != nil {
		logger.Warn("reading geocoding key", "err", err)
	}
	if key == "" {
		logger.Info("geocoding disabled: no API key")
		return nil
	}
	timeout := time.Duration(cfg.Geocoding.TimeoutSec) * time.Second
	return geocode.NewClient(cfg.Geocoding.BaseURL, key, timeout)
}

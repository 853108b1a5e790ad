package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// AuthConfig describes how session tokens from the auth provider are verified.
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	Issuer      string `mapstructure:"issuer" yaml:"issuer"`
	Audience    string `mapstructure:"audience" yaml:"audience"`
	CookieName  string `mapstructure:"cookie_name" yaml:"cookie_name"`
	SignInURL   string `mapstructure:"sign_in_url" yaml:"sign_in_url"`
	TokenTTLMin int    `mapstructure:"token_ttl_min" yaml:"token_ttl_min"`
}

// GeocodingConfig holds the map provider settings.
type GeocodingConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	LocateURL  string `mapstructure:"locate_url" yaml:"locate_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LocationConfig is an optional fixed position for the terminal client,
// used when IP lookup is disabled or fails, and the zone due dates are
// read in.
type LocationConfig struct {
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`

	// Timezone is an IANA zone name such as "Europe/Berlin". Empty means
	// the process's local zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// TimeLocation loads the configured zone.
func (c LocationConfig) TimeLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Geocoding GeocodingConfig `mapstructure:"geocoding" yaml:"geocoding"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Location  LocationConfig  `mapstructure:"location" yaml:"location"`
}

// EnvPrefix prefixes environment overrides, e.g. LACQUER_AUTH_JWT_SECRET.
const EnvPrefix = "LACQUER"

// ConfigDir returns ~/.config/lacquer.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "lacquer")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/lacquer/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDatabasePath returns the default SQLite file location.
func DefaultDatabasePath() string {
	return filepath.Join(ConfigDir(), "lacquer.db")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    DefaultDatabasePath(),
		},
		Auth: AuthConfig{
			CookieName:  "lacquer_session",
			SignInURL:   "/auth",
			TokenTTLMin: 60 * 24 * 7,
		},
		Geocoding: GeocodingConfig{
			BaseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
			LocateURL:  "http://ip-api.com/json",
			TimeoutSec: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.cookie_name", d.Auth.CookieName)
	v.SetDefault("auth.sign_in_url", d.Auth.SignInURL)
	v.SetDefault("auth.token_ttl_min", d.Auth.TokenTTLMin)
	v.SetDefault("geocoding.base_url", d.Geocoding.BaseURL)
	v.SetDefault("geocoding.api_key", "")
	v.SetDefault("geocoding.locate_url", d.Geocoding.LocateURL)
	v.SetDefault("geocoding.timeout_sec", d.Geocoding.TimeoutSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("location.enabled", false)
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("location.timezone", "")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults are used. Environment variables with
// the LACQUER_ prefix override both.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it on Unmarshal.
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("database", cfg.Database)
	v.Set("auth", cfg.Auth)
	v.Set("geocoding", cfg.Geocoding)
	v.Set("log", cfg.Log)
	v.Set("location", cfg.Location)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

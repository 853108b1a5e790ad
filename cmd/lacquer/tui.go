package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/app"
	"github.com/nhle/lacquer/internal/auth"
	"github.com/nhle/lacquer/internal/credential"
	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/geocode"
)

func tuiCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal task list",
		Long: `Open the terminal task list for the signed-in user.

The session token is taken from --token, LACQUER_TOKEN, or the keyring
entry written by "lacquer login".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("LACQUER_TOKEN")
			}
			return runTUI(cmd.Context(), token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "session token")

	return cmd
}

func runTUI(ctx context.Context, token string) error {
	// The terminal belongs to the UI, so logs go to a file.
	logPath := filepath.Join(filepath.Dir(configPath), "lacquer.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile)
	if err != nil {
		return err
	}

	if token == "" {
		token, err = secret("", credential.KeySessionToken)
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New(`not signed in: run "lacquer login <token>" first`)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verifier, err := newVerifier()
	if err != nil {
		return err
	}
	id, err := verifier.Verify(token)
	if err != nil {
		return fmt.Errorf("session rejected: %w", err)
	}
	user, err := auth.NewGate(verifier, st, logger).EnsureUser(ctx, id)
	if err != nil {
		return err
	}

	svc, _, err := newService(st, logger)
	if err != nil {
		return err
	}
	opts := app.Options{
		Service:      svc,
		UserID:       user.ID,
		Username:     user.Username,
		AutoLocation: svc.AutoLocationFilter(ctx, user.ID),
	}
	if g := newGeocoder(logger); g != nil {
		opts.Geocoder = g
	}
	switch {
	case cfg.Location.Enabled:
		opts.Position = &geo.Coordinate{
			Lat: cfg.Location.Latitude,
			Lng: cfg.Location.Longitude,
		}
	case cfg.Geocoding.LocateURL != "":
		opts.Locator = geocode.NewLocator(cfg.Geocoding.LocateURL)
	}

	logger.Info("starting tui", "user", user.ID)
	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

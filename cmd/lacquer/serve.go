package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/auth"
	"github.com/nhle/lacquer/internal/web"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long: `Start the JSON API server.

Examples:
  lacquer serve
  lacquer serve --addr :9090
  LACQUER_DATABASE_DRIVER=postgres LACQUER_DATABASE_DSN=postgres://... lacquer serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(ctx context.Context) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verifier, err := newVerifier()
	if err != nil {
		return err
	}

	svc, tracker, err := newService(st, logger)
	if err != nil {
		return err
	}
	opts := web.Options{
		Service: svc,
		Auth:    auth.NewGate(verifier, st, logger),
		Tracker: tracker,
		AuthCfg: cfg.Auth,
		Logger:  logger,
	}
	if g := newGeocoder(logger); g != nil {
		opts.Geocoder = g
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

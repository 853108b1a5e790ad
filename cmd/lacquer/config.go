package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/model"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		// Skip the root loader so a broken file can be replaced.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := model.SaveConfig(configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			if shown.Auth.JWTSecret != "" {
				shown.Auth.JWTSecret = "********"
			}
			if shown.Geocoding.APIKey != "" {
				shown.Geocoding.APIKey = "********"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:    %s (%s)\n", shown.Server.Addr, shown.Server.Mode)
			fmt.Fprintf(out, "database:  %s %s\n", shown.Database.Driver, shown.Database.DSN)
			fmt.Fprintf(out, "auth:      secret=%q issuer=%q audience=%q\n", shown.Auth.JWTSecret, shown.Auth.Issuer, shown.Auth.Audience)
			fmt.Fprintf(out, "geocoding: %s key=%q\n", shown.Geocoding.BaseURL, shown.Geocoding.APIKey)
			fmt.Fprintf(out, "log:       %s/%s\n", shown.Log.Level, shown.Log.Format)
			if shown.Location.Timezone != "" {
				fmt.Fprintf(out, "timezone:  %s\n", shown.Location.Timezone)
			}
			if shown.Location.Enabled {
				fmt.Fprintf(out, "location:  %.6f, %.6f\n", shown.Location.Latitude, shown.Location.Longitude)
			}
			return nil
		},
	}
}

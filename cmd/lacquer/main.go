// Command lacquer runs the task tracker's API server and terminal client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/model"
)

var Version = "dev"

var (
	configPath string
	cfg        *model.AppConfig
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lacquer",
		Short:         "Lacquer - a location-aware personal task tracker",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = model.LoadConfig(configPath)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

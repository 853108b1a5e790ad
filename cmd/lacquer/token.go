package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/auth"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token signed with the configured secret",
		Long: `Mint a session token signed with the configured secret.

Useful for development when no external auth provider is running.

Examples:
  lacquer token --email me@example.com
  lacquer token --subject 6f1c... --ttl 1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := jwtSecret()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
			}
			issuer, err := auth.NewIssuer(s, cfg.Auth.Issuer, cfg.Auth.Audience, ttl)
			if err != nil {
				return err
			}
			token, err := issuer.Mint(subject, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "user id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl_min)")

	return cmd
}

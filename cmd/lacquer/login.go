package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/lacquer/internal/credential"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store a session token in the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier, err := newVerifier()
			if err != nil {
				return err
			}
			id, err := verifier.Verify(args[0])
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}

			creds, err := credential.Open()
			if err != nil {
				return err
			}
			if err := creds.Set(credential.KeySessionToken, args[0]); err != nil {
				return err
			}

			who := id.Email
			if who == "" {
				who = id.Subject
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", who)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credential.Open()
			if err != nil {
				return err
			}
			err = creds.Delete(credential.KeySessionToken)
			if err != nil && !errors.Is(err, credential.ErrNotFound) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

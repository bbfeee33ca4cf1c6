package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/auth"
	"github.com/custodia-labs/sercha-docs/internal/core/services"
)

func NewTokenCmd(parent *cobra.Command) {
	var userID, name string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Signs an API token for a user",
		Long: `Signs a bearer token with JWT_SECRET. For example:

sercha-docs token --user 42 --name "Ragnar"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			authService := services.NewAuthService(auth.NewAdapter(cfg.JWT.Secret, cfg.JWT.Issuer), cfg.JWT.TokenTTL)
			issued, err := authService.IssueToken(userID, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), issued.Token)
			cmd.PrintErrf("expires %s\n", issued.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id recorded as author and editor")
	cmd.Flags().StringVar(&name, "name", "", "display name")

	parent.AddCommand(cmd)
}

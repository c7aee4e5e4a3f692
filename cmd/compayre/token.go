package main

import (
	"fmt"
	"time"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/utils"
	"github.com/spf13/cobra"
)

// newTokenCmd выпускает токен для локальной разработки и тестов API.
func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireJWTSecret(); err != nil {
				return err
			}
			switch role {
			case constants.RoleUser, constants.RoleSubscriber, constants.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			signed, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: userID, Role: role}, a.cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "dev", "user id claim")
	cmd.Flags().StringVar(&role, "role", constants.RoleUser, "role claim: user, subscriber or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")

	return cmd
}

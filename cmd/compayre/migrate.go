package main

import (
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pool, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(ctx, xpgx.Wrap(pool)); err != nil {
				return err
			}
			logger.Info(ctx, "migrate: schema is up to date")
			return nil
		},
	}
}

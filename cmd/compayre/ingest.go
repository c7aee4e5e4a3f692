package main

import (
	"fmt"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/compayre/backend/internal/pkg/store/memstore"
	"github.com/compayre/backend/internal/service/ingest"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		sheet  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file.xlsx>",
		Short: "Load a governance workbook into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				st      store.Transactor
				cleanup = func() {}
			)
			if dryRun && a.cfg.DatabaseURL == "" {
				// без базы пробный прогон проверяет только разбор книги
				policy, err := store.ParseUpsertPolicy(a.cfg.UpsertPolicy)
				if err != nil {
					return err
				}
				logger.Warn(ctx, "ingest: no database configured, dry run against an in-memory store")
				st = memstore.New(policy)
			} else {
				s, closeStore, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				st, cleanup = s, closeStore
			}
			defer cleanup()

			summary, err := ingest.NewService(st).IngestFile(ctx, ingest.Options{
				Path:   args[0],
				Sheet:  sheet,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			return summary.Print(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "load only this sheet")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate, then roll back")
	cmd.Flags().String("policy", "", fmt.Sprintf("upsert policy: %s or %s", store.PolicyFill, store.PolicyOverwrite))
	_ = a.v.BindPFlag(constants.ViperUpsertPolicyKey, cmd.Flags().Lookup("policy"))

	return cmd
}

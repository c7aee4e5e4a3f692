package main

import (
	"context"
	"time"

	"github.com/compayre/backend/internal/api"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := a.cfg.RequireJWTSecret(); err != nil {
				return err
			}

			st, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := api.NewAPIService(st, api.Options{
				JWTSecret:   a.cfg.JWTSecret,
				CORSOrigins: a.cfg.CORSOrigins,
				UploadDir:   a.cfg.UploadDir,
				Debug:       a.cfg.LogDev,
			})
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return svc.Serve(a.cfg.HTTPAddr)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info(ctx, "serve: shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return svc.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().String("addr", "", "listen address, overrides http.addr")
	_ = a.v.BindPFlag(constants.ViperHTTPAddrKey, cmd.Flags().Lookup("addr"))

	return cmd
}

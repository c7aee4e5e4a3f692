package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/compayre/backend/internal/config"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v         *viper.Viper
	cfg       *config.Config
	verbosity int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	cmd := &cobra.Command{
		Use:           "compayre",
		Short:         "Director remuneration data: ingestion and read API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.LogLevel
			if cmd.Flags().Changed("verbosity") {
				level = verbosityLevel(a.verbosity)
			}
			return logger.Init(level, cfg.LogDev)
		},
	}

	cmd.PersistentFlags().IntVarP(&a.verbosity, "verbosity", "v", 1, "0 warnings only, 1 info, 2 and 3 debug")

	cmd.AddCommand(newIngestCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newTokenCmd(a))

	return cmd
}

func verbosityLevel(v int) string {
	switch {
	case v <= 0:
		return "warn"
	case v == 1:
		return "info"
	default:
		return "debug"
	}
}

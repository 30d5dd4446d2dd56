// Command eventctl runs maintenance tasks against an eventboard store
// without going through the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/config"
	"github.com/lalith-99/eventboard/internal/db"
	"github.com/lalith-99/eventboard/internal/observ"
	"github.com/lalith-99/eventboard/internal/planner"
	"github.com/lalith-99/eventboard/internal/repository"
)

type rootOptions struct {
	storeURL string
	cfg      *config.Config
	logger   *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "eventctl",
		Short:         "Manage eventboard guest lists from the command line",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.storeURL == "" {
				opts.storeURL = cfg.StoreURL
			}
			logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel, "eventctl")
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.storeURL, "store", "", "Store URL (default: $STORE_URL)")

	cmd.AddCommand(newImportCmd(&opts))
	cmd.AddCommand(newExportCmd(&opts))
	return cmd
}

// openPlanner opens the configured store. The returned func releases it.
func openPlanner(ctx context.Context, opts *rootOptions) (*planner.Service, func() error, error) {
	store, err := db.OpenStore(ctx, opts.storeURL, opts.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	state := repository.NewSerializer(store)
	svc := planner.New(state, nil, opts.logger, planner.Options{
		CascadeTableDelete: opts.cfg.CascadeTableDelete,
	})
	return svc, state.Close, nil
}

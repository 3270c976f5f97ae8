package main

import (
	"context"
	"fmt"
	"os"

	"planerly/internal/api"
	"planerly/internal/cli"
	"planerly/internal/config"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/persistence"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), build)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build opens the store picked by the environment and loads the planner
// from it.
func build(ctx context.Context, cfg *config.Config) (*cli.App, func(), error) {
	logger := logging.New(os.Stderr, cfg.LoggerOptions())
	m := metrics.New()

	factory := config.NewStoreFactory(config.GetEnvironment()).WithLogger(logger)
	store, err := factory.CreateStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)

	adapter := persistence.New(store,
		persistence.WithKey(cfg.Storage.Key),
		persistence.WithLogger(logger),
		persistence.WithMetrics(m),
	)
	workspace := api.NewWorkspace(ctx, adapter, api.WithLogger(logger))

	app := cli.NewApp(workspace, cfg,
		cli.WithLogger(logger),
		cli.WithMetrics(m),
	)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}
	return app, cleanup, nil
}

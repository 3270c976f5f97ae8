package config

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"planerly/internal/repository"
	"planerly/internal/repository/file"
	"planerly/internal/repository/memory"
	"planerly/internal/repository/natskv"
	"planerly/internal/repository/sqlite"
)

// CreateStore creates the configured key/value backend
func CreateStore(ctx context.Context, config *Config) (repository.Store, error) {
	return createStore(ctx, config, nil)
}

func createStore(ctx context.Context, config *Config, logger *log.Logger) (repository.Store, error) {
	switch config.Storage.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.New(config.GetDatabasePath(), sqlite.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil
	case BackendFile:
		store, err := file.New(config.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return store, nil
	case BackendNATS:
		store, err := natskv.Connect(ctx, config.Storage.NATSURL, config.Storage.NATSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		return store, nil
	case BackendMemory:
		return memory.New(), nil
	default:
		return nil, &ConfigError{Field: "storage.backend", Message: "unknown backend " + config.Storage.Backend}
	}
}

// CreateTestStore creates an in-memory SQLite store for testing
func CreateTestStore() (repository.Store, error) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}

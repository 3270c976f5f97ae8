package config

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"planerly/internal/repository"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment reads PLANERLY_ENV. Anything unknown means production.
func GetEnvironment() Environment {
	switch Environment(os.Getenv("PLANERLY_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// StoreFactory creates stores based on environment
type StoreFactory struct {
	env    Environment
	logger *log.Logger
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment) *StoreFactory {
	return &StoreFactory{env: env}
}

// WithLogger sets the logger handed to the backends
func (f *StoreFactory) WithLogger(logger *log.Logger) *StoreFactory {
	f.logger = logger
	return f
}

// CreateStore creates a store for the environment.
// Development keeps its data in the working directory, testing keeps it in
// memory and production uses the configured backend.
func (f *StoreFactory) CreateStore(ctx context.Context, config *Config) (repository.Store, error) {
	switch f.env {
	case Development:
		dev := *config
		dev.Storage.Dir = "."
		dev.Storage.Filename = "planerly-dev.db"
		return createStore(ctx, &dev, f.logger)
	case Testing:
		return CreateTestStore()
	default:
		return createStore(ctx, config, f.logger)
	}
}

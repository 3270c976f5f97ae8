// Package repository defines the string keyed store that holds the persisted
// projects document. Backends live in the sub-packages.
package repository

import (
	"context"
)

// Store is a key/value store of opaque values.
// Get returns a not found AppError for a missing key. Deleting a missing key
// is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

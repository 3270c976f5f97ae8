package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/charmbracelet/log"

	"planerly/internal/errors"
	"planerly/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// SQLiteRepository stores values in the kv_entries table
type SQLiteRepository struct {
	db *sql.DB
}

// Option configures New
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger that reports applied migrations
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New opens the database at dbPath and applies pending migrations.
// ":memory:" gives a private in-memory database.
func New(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(context.Background(), db, o.logger); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// GetEntry retrieves the entry stored under key
func (r *SQLiteRepository) GetEntry(ctx context.Context, key string) (*Entry, error) {
	query := `
	SELECT key, value, updated_at
	FROM kv_entries
	WHERE key = ?`

	return QuerySingle(ctx, r.db, query, ScanEntry, "storage key", key, key)
}

// Get returns the value stored under key
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := r.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Put inserts or replaces the value stored under key
func (r *SQLiteRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := ExecuteWithRowsAffected(ctx, r.db, query, key, value, FormatTimeForDB(timeNow()))
	return err
}

// Delete removes key. A missing key is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = ?`

	_, err := ExecuteWithRowsAffected(ctx, r.db, query, key)
	return err
}

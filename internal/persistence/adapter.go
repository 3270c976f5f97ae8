// Package persistence saves and restores the whole projects list as one JSON
// document under a fixed key. Failures degrade to "start fresh"; they are
// logged and counted, never fatal.
package persistence

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"planerly/internal/document"
	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/repository"
)

// DefaultKey is the storage key of the projects document.
const DefaultKey = "planerly-todo-application-data"

// Load failure reasons reported to metrics.
const (
	ReasonMissing = "missing"
	ReasonStorage = "storage"
	ReasonParse   = "parse"
	ReasonSchema  = "schema"
	ReasonVersion = "version"
	ReasonMapping = "mapping"
)

// Adapter translates between a ProjectsList and its stored document.
type Adapter struct {
	store   repository.Store
	key     string
	mapper  *domain.Mapper
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for degradations.
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the counters updated on saves and degradations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// New creates an adapter over store.
func New(store repository.Store, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		key:    DefaultKey,
		mapper: domain.NewMapper(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes the whole list. The returned error is a persistence AppError;
// it has already been logged.
func (a *Adapter) Save(ctx context.Context, list *domain.ProjectsList) error {
	data, err := document.Encode(a.mapper.ToDocument(list))
	if err != nil {
		return a.saveFailed("encode", err)
	}
	if err := a.store.Put(ctx, a.key, data); err != nil {
		return a.saveFailed(ReasonStorage, err)
	}
	a.metrics.ObserveSave()
	a.logger.Debug("saved projects document", "key", a.key, "bytes", len(data))
	return nil
}

func (a *Adapter) saveFailed(reason string, err error) error {
	a.metrics.ObservePersistenceFailure("save", reason)
	a.logger.Error("save failed", "key", a.key, "reason", reason, "err", err)
	return errors.NewPersistenceError("save", err)
}

// Load reads and rebuilds the list. It reports false when the key is missing
// or the stored value cannot be read, parsed, validated or mapped.
func (a *Adapter) Load(ctx context.Context) (*domain.ProjectsList, bool) {
	data, err := a.store.Get(ctx, a.key)
	if err != nil {
		if errors.IsNotFound(err) {
			a.metrics.ObservePersistenceFailure("load", ReasonMissing)
			a.logger.Info("no saved projects", "key", a.key)
			return nil, false
		}
		return a.loadFailed(ReasonStorage, err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		return a.loadFailed(decodeReason(err), err)
	}

	list, err := a.mapper.FromDocument(doc)
	if err != nil {
		return a.loadFailed(ReasonMapping, err)
	}

	a.logger.Debug("loaded projects document", "key", a.key, "projects", list.Len())
	return list, true
}

func (a *Adapter) loadFailed(reason string, err error) (*domain.ProjectsList, bool) {
	a.metrics.ObservePersistenceFailure("load", reason)
	a.logger.Warn("discarding saved projects", "key", a.key, "reason", reason, "err", err)
	return nil, false
}

func decodeReason(err error) string {
	var schemaErr *document.SchemaError
	var versionErr *document.VersionError
	switch {
	case stderrors.As(err, &schemaErr):
		return ReasonSchema
	case stderrors.As(err, &versionErr):
		return ReasonVersion
	default:
		return ReasonParse
	}
}

// LoadOrSeed returns the saved list, or the seeded default list (which is
// saved right away) when nothing usable is stored.
func (a *Adapter) LoadOrSeed(ctx context.Context, now time.Time) *domain.ProjectsList {
	if list, ok := a.Load(ctx); ok {
		return list
	}
	list := domain.SeedProjectsList(now)
	_ = a.Save(ctx, list)
	return list
}

// Clear deletes the stored document.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		a.metrics.ObservePersistenceFailure("clear", ReasonStorage)
		a.logger.Error("clear failed", "key", a.key, "err", err)
		return errors.NewPersistenceError("clear", err)
	}
	return nil
}

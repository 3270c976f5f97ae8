// Package natskv keeps values in a NATS JetStream key/value bucket.
package natskv

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"planerly/internal/errors"
)

// DefaultBucket is used when no bucket name is configured.
const DefaultBucket = "PLANERLY"

var validKey = regexp.MustCompile(`^[-/_=\.a-zA-Z0-9]+$`)

// Store is a JetStream KV backed key/value store.
type Store struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// Connect dials url and opens (or creates) bucket. The store owns the
// connection and drains it on Close.
func Connect(ctx context.Context, url, bucket string) (*Store, error) {
	conn, err := nats.Connect(url, nats.Name("planerly"))
	if err != nil {
		return nil, errors.NewStorageError("connect to NATS", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.NewStorageError("create JetStream context", err)
	}

	store, err := New(ctx, js, bucket)
	if err != nil {
		conn.Close()
		return nil, err
	}
	store.conn = conn
	return store, nil
}

// New opens (or creates) bucket on an existing JetStream context.
func New(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, errors.NewStorageError("open bucket "+bucket, err)
	}
	return &Store{kv: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	if !stderrors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Planerly projects documents",
		History:     5,
	})
}

// CheckKey reports whether key can be used as a JetStream KV key.
func CheckKey(key string) error {
	if !validKey.MatchString(key) {
		return errors.NewInvalidInputError("key", key, fmt.Sprintf("%q is not a valid NATS KV key", key))
	}
	return nil
}

// Get returns the latest value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errors.NewNotFoundError("storage key", key)
		}
		return nil, errors.NewStorageError("get "+key, err)
	}
	return entry.Value(), nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	if _, err := s.kv.Put(ctx, key, value); err != nil {
		return errors.NewStorageError("put "+key, err)
	}
	return nil
}

// Delete places a delete marker for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, key); err != nil && !stderrors.Is(err, jetstream.ErrKeyNotFound) {
		return errors.NewStorageError("delete "+key, err)
	}
	return nil
}

// Close drains the connection opened by Connect.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return err
	}
	return nil
}

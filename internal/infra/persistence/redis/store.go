// Package redis stores each directory collection as one string key on a Redis
// server. It is the remote key-value backend.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"diocese/pkg/domain"
)

var _ domain.CollectionStore = (*Store)(nil)

// DefaultPrefix namespaces collection keys.
const DefaultPrefix = "diocese:"

// Store is a CollectionStore backed by go-redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New wraps an existing client.
func New(client *goredis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open parses url, pings the server and returns a store.
func Open(ctx context.Context, url string, opts ...Option) (*Store, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	options, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := goredis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(client, opts...), nil
}

func (s *Store) key(collection string) string { return s.prefix + collection }

// Get reads the payload stored for key. redis.Nil maps to not found.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return payload, true, nil
}

// Set stores payload without expiry.
func (s *Store) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return n > 0, nil
}

// Health checks if the Redis connection is healthy.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error { return s.client.Close() }

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrUnavailable = errors.New("cache: redis not configured")
	ErrMiss        = errors.New("cache: miss")
)

// scanBatch bounds both the SCAN page and the UNLINK pipeline.
const scanBatch = 200

// Store is one key namespace in Redis. Values are JSON and share the
// namespace TTL. A Store without a client reports ErrUnavailable on reads
// and silently drops writes, so callers always fall through to the database.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

func (s *Store) Get(ctx context.Context, k string, dest any) error {
	if s.client == nil {
		return ErrUnavailable
	}
	raw, err := s.client.Get(ctx, s.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", s.key(k), err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", s.key(k), err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, k string, value any) error {
	if s.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", s.key(k), err)
	}
	return s.client.Set(ctx, s.key(k), raw, s.ttl).Err()
}

func (s *Store) Evict(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}

// Flush removes every key in the namespace.
func (s *Store) Flush(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s: %w", s.prefix, err)
		}
		if len(keys) > 0 {
			if err := s.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache unlink %s: %w", s.prefix, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Load returns the cached value for k, or calls fetch and caches its result.
// Fetch errors are returned as is and never cached. Redis failures only cost
// a trip to fetch.
func Load[T any](ctx context.Context, s *Store, k string, fetch func() (T, error)) (T, error) {
	var hit T
	err := s.Get(ctx, k, &hit)
	if err == nil {
		return hit, nil
	}
	if !errors.Is(err, ErrMiss) && !errors.Is(err, ErrUnavailable) {
		slog.WarnContext(ctx, "Cache read failed", "error", err, "key", s.key(k))
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if err := s.Put(ctx, k, v); err != nil {
		slog.WarnContext(ctx, "Cache write failed", "error", err, "key", s.key(k))
	}
	return v, nil
}

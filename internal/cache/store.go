package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgredis "github.com/angelmondragon/storefront-backend/pkg/redis"
)

// ErrCacheMiss indicates the requested key was not found in the store.
var ErrCacheMiss = errors.New("cache miss")

// Store is the minimal surface the coherence manager needs. Keeping it this
// small lets tests run against an in-memory fake instead of a live Redis.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// redisStore adapts pkg/redis to the Store interface, applying the shared
// cache namespace so invalidation-by-prefix covers exactly the cached keys.
type redisStore struct {
	client *pkgredis.Client
}

// NewRedisStore wraps the shared redis client as a cache store.
func NewRedisStore(client *pkgredis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.client.CacheKey(key))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.client.CacheKey(key), value, ttl)
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = s.client.CacheKey(key)
	}
	return s.client.Del(ctx, namespaced...)
}

func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	return s.client.DelByPrefix(ctx, s.client.CacheKey(prefix))
}

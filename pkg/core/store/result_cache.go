package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultCache caches serialized computation results. The engines are pure and
// deterministic, so a result keyed by its exact inputs never goes stale; the
// TTL only bounds memory.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CacheKey derives a stable cache key from the computation kind and its
// inputs: SHA-256 over the canonical JSON encoding. encoding/json emits map
// keys sorted and struct fields in declaration order, so equal inputs always
// hash equally.
func CacheKey(kind string, inputs ...any) (string, error) {
	h := sha256.New()
	h.Write([]byte(kind))
	for _, in := range inputs {
		data, err := json.Marshal(in)
		if err != nil {
			return "", fmt.Errorf("failed to marshal cache input: %w", err)
		}
		h.Write([]byte{0})
		h.Write(data)
	}
	return "underwrite:" + hex.EncodeToString(h.Sum(nil)), nil
}

const resultTTL = 24 * time.Hour

// RedisCache is the Redis-backed ResultCache.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, resultTTL).Err()
}

// MemoryCache is an in-process ResultCache for tests and for running without
// Redis. Not safe for concurrent use.
type MemoryCache struct {
	Data map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Data: make(map[string]string)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	val, ok := m.Data[key]
	return val, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.Data[key] = value
	return nil
}

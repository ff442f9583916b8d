package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"palette-wardrobe/stylist/internal/logging"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// RedisCacheService implements CacheInterface on Redis. Values are stored as
// JSON and handed back undecoded so callers pick their own type.
type RedisCacheService struct {
	client *redis.Client
	prefix string
}

var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService namespaces every key under prefix.
func NewRedisCacheService(client *redis.Client, prefix string) *RedisCacheService {
	return &RedisCacheService{client: client, prefix: prefix}
}

func (r *RedisCacheService) key(k string) string {
	return r.prefix + k
}

func (r *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Error("Redis cache: failed to marshal value", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, r.key(key), data, duration).Err(); err != nil {
		logging.Error("Redis cache: failed to set key", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Get(key string) (interface{}, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis cache: failed to get key", "key", key, "error", err)
		return nil, false
	}
	return json.RawMessage(data), true
}

func (r *RedisCacheService) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		logging.Error("Redis cache: failed to delete key", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Backend() string { return "redis" }

func (r *RedisCacheService) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a redis instance. TTL enforcement is
// delegated to redis key expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a redis-backed store. The connection is verified
// lazily via Initialize so construction itself never blocks.
func NewRedisStore(addr, password string, db int, prefix string) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if prefix == "" {
		prefix = "commerce-events:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisStore{client: client, prefix: prefix}, nil
}

// Initialize tests the redis connection.
func (r *RedisStore) Initialize(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (r *RedisStore) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

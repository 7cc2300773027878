package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session key as its own redis string with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore connects to redisURL and pings it once
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "storefront:session",
	}
}

func (s *RedisStore) cacheKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, sessionID, key)
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.cacheKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return s.client.Set(ctx, s.cacheKey(sessionID, key), value, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	return s.client.Del(ctx, s.cacheKey(sessionID, key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

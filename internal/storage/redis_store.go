package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mittbutik/storefront/config"
	"github.com/mittbutik/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps component state in Redis, for deployments where the
// storefront state should survive the process and be shared between replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	logger.Info("Initializing Redis storage", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(key string) string {
	return "storefront:" + key
}

package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "weatherwork:state:"

type redisBackend struct {
	client *redis.Client
}

func newRedisBackend(uri string) (*redisBackend, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis store URI: %w", err)
	}

	return &redisBackend{
		client: redis.NewClient(opts),
	}, nil
}

func (b *redisBackend) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return value, nil
}

func (b *redisBackend) Save(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotRepository stores snapshots as plain Redis string values without expiry.
type RedisSnapshotRepository struct {
	client *redis.Client
}

// NewRedisSnapshotRepository constructs a Redis-backed snapshot repository.
func NewRedisSnapshotRepository(client *redis.Client) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{client: client}
}

// Save overwrites the value under key; SET is atomic so readers see old or new, never a mix.
func (r *RedisSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load fetches the value under key.
func (r *RedisSnapshotRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return payload, true, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/port"
)

var _ port.StatusCache = (*RedisCache)(nil)

// RedisCache keeps run status records with a TTL so that status polling does
// not hit the database on the hot path.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

func key(runID string) string { return "run:" + runID }

func (c *RedisCache) SetRun(ctx context.Context, run *domain.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(run.ID), b, c.ttl).Err()
}

func (c *RedisCache) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	b, err := c.client.Get(ctx, key(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var run domain.Run
	if err := json.Unmarshal(b, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

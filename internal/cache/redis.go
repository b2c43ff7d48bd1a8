package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/amortize/pkg/amortization"
	"github.com/redis/go-redis/v9"
)

// Redis stores results as JSON in a Redis server so several server instances
// can share them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Redis cache. The connection is established lazily on the
// first command.
func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: rdb, ttl: ttl}
}

// Get returns the stored result or ErrMiss.
func (r *Redis) Get(ctx context.Context, key string) (amortization.Result, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return amortization.Result{}, ErrMiss
	}
	if err != nil {
		return amortization.Result{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var result amortization.Result
	if err := json.Unmarshal(val, &result); err != nil {
		return amortization.Result{}, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	return result, nil
}

// Set stores result under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, result amortization.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}

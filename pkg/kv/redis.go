package kv

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// Redis stores keys in a Redis database.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the server described by a redis:// or rediss:// URL
// and verifies the connection with PING.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	err = RetryWithBackoff(ctx, func() error {
		return classifyRedis(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

// NewRedisClient wraps an existing client. The store takes ownership of it.
func NewRedisClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get reads key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)
	err := RetryWithBackoff(ctx, func() error {
		v, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data, found = nil, false
			return nil
		}
		data, found = v, err == nil
		return classifyRedis(err)
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// Set writes key without expiry.
func (r *Redis) Set(ctx context.Context, key string, data []byte) error {
	return RetryWithBackoff(ctx, func() error {
		return classifyRedis(r.client.Set(ctx, key, data, 0).Err())
	})
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classifyRedis(r.client.Del(ctx, key).Err())
	})
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// classifyRedis marks network failures as retryable.
func classifyRedis(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(err)
	}
	return err
}

var _ Store = (*Redis)(nil)

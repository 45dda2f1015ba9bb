package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	jerrors "github.com/matzehuels/jigsaw/pkg/errors"
)

// DefaultRedisPrefix namespaces every key written by [RedisCache].
const DefaultRedisPrefix = "jigsaw:"

// RedisCache stores entries in Redis. Connection failures are retried with
// backoff; a missing key is a plain miss.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis server at rawURL (redis:// or rediss://)
// and verifies the connection with a PING.
func NewRedisCache(ctx context.Context, rawURL, prefix string) (*RedisCache, error) {
	if err := jerrors.ValidateRedisURL(rawURL); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	c := &RedisCache{client: redis.NewClient(opts), prefix: prefix}

	err = RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return c, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		v, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if err != nil {
			return classify(err)
		}
		data = v
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in Redis with the given expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, c.prefix+key).Err())
	})
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 256).Result()
		if err != nil {
			return classify(err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return classify(err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks connection-level failures as retryable.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)

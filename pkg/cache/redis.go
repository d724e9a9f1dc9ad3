package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	// prefix scopes Clear to this cache's keys.
	prefix string
}

// NewRedisCache creates a cache using the given Redis client. Clear only
// removes keys starting with prefix.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// DialRedis connects to the Redis server at addr and checks that it
// answers.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisCache(client, prefix), nil
}

// Get returns the value for key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil { // not found
		return nil, false, nil
	}
	if err != nil {
		return nil, false, redisErr(err)
	}
	return val, true, nil
}

// Set inserts the key with the given data and time-to-live.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return redisErr(c.client.Set(ctx, key, data, ttl).Err())
}

// Delete deletes key. It does not return an error if the key does not
// exist.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return redisErr(c.client.Unlink(ctx, key).Err())
}

// Clear deletes all keys beginning with the cache's prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", int64(scanCount)).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= scanCount {
			if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
				return redisErr(err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return redisErr(err)
	}
	if len(keys) > 0 {
		return redisErr(c.client.Unlink(ctx, keys...).Err())
	}
	return nil
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// The "count" argument to the Redis SCAN command, which is a hint for how much
// work to perform. Also used as the batch size for deletes in Clear.
// var for testing.
var scanCount = 100

// redisErr marks connection failures as retryable.
func redisErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
		return Retryable(err)
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)

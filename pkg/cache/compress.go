package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Shared zstd encoder and decoder, safe for concurrent EncodeAll and
// DecodeAll calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("cache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		panic("cache: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressedCache stores zstd-compressed values in another Cache.
type CompressedCache struct {
	inner Cache
}

// Compressed wraps c so that values are compressed with zstd.
func Compressed(c Cache) *CompressedCache {
	return &CompressedCache{inner: c}
}

// Unwrap returns the wrapped cache.
func (c *CompressedCache) Unwrap() Cache { return c.inner }

// Get returns the decompressed value for key.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, hit, err
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("zstd decompress %s: %w", key, err)
	}
	return out, true, nil
}

// Set compresses data and stores it under key.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, zstdEncoder.EncodeAll(data, nil), ttl)
}

// Delete removes key from the wrapped cache.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear clears the wrapped cache if it supports it.
func (c *CompressedCache) Clear(ctx context.Context) error {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// Close closes the wrapped cache.
func (c *CompressedCache) Close() error {
	return c.inner.Close()
}

var (
	_ Cache   = (*CompressedCache)(nil)
	_ Clearer = (*CompressedCache)(nil)
)

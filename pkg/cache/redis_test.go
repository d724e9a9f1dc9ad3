// github.com/alicebob/miniredis/v2 pulls in
// github.com/yuin/gopher-lua which uses a non
// build-tag-guarded use of the syscall package.
//go:build !plan9

package cache

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/treegen/pkg/calc"
	"github.com/matzehuels/treegen/pkg/tree"
)

func newRedis(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: s.Addr(), Protocol: 2}), prefix)
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestRedisCache(t *testing.T) {
	c, _ := newRedis(t, "")
	testCache(t, c)
}

func TestRedisClearKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedis(t, "tree:")

	check := func(want []string) {
		t.Helper()
		got, err := c.client.Keys(ctx, "*").Result()
		if err != nil {
			t.Fatal(err)
		}
		sort.Strings(want)
		sort.Strings(got)
		if !cmp.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}

	for _, k := range []string{"tree:a", "tree:b", "tree:c", "session:a"} {
		if err := c.Set(ctx, k, []byte("value"), 0); err != nil {
			t.Fatal(err)
		}
	}

	defer func(n int) { scanCount = n }(scanCount)
	scanCount = 1
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	check([]string{"session:a"})
}

func TestRedisTTL(t *testing.T) {
	ctx := context.Background()
	c, s := newRedis(t, "")
	if err := c.Set(ctx, "k", []byte("v"), 60e9); err != nil {
		t.Fatal(err)
	}
	s.FastForward(61e9)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should have expired")
	}
}

func TestStoreOnRedis(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedis(t, KeyPrefix)
	s := NewStore(Compressed(c), nil, calc.Registry, nil)

	key, err := s.Put(ctx, calc.Sample())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	n, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !tree.Equal(calc.Sample(), n) {
		t.Error("tree changed after a trip through Redis")
	}
}

func TestRedisConnectionErrorIsRetryable(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := s.Addr()
	s.Close()
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: addr, Protocol: 2, MaxRetries: -1}), "")
	defer c.Close()
	_, _, err := c.Get(context.Background(), "k")
	if err == nil {
		t.Fatal("Get on a closed server should fail")
	}
	if !IsRetryable(err) {
		t.Errorf("connection error %v should be retryable", err)
	}
}

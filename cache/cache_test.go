package cache_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/cache"
)

// testCache runs the ocean.Cache contract against c.
func testCache(t *testing.T, c ocean.Cache) {
	ctx := context.Background()

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Set(ctx, "s1:a", []byte("A"), 0))
	require.NoError(t, c.Set(ctx, "s1:b", []byte("B"), time.Minute))
	require.NoError(t, c.Set(ctx, "s2:a", []byte("C"), 0))
	require.NoError(t, c.Set(ctx, "s1*:x", []byte("D"), 0))

	v, err = c.Get(ctx, "s1:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), v)

	require.NoError(t, c.Delete(ctx, "s1:a"))
	v, err = c.Get(ctx, "s1:a")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.DeletePrefix(ctx, "s1:"))
	v, err = c.Get(ctx, "s1:b")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = c.Get(ctx, "s2:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("C"), v, "other prefixes are kept")
	v, err = c.Get(ctx, "s1*:x")
	require.NoError(t, err)
	assert.Equal(t, []byte("D"), v, "prefixes are matched literally")

	require.NoError(t, c.Clear(ctx))
	v, err = c.Get(ctx, "s2:a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemory(t *testing.T) {
	t.Parallel()
	testCache(t, cache.NewMemory())
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Millisecond))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	assert.Eventually(t, func() bool {
		v, err := c.Get(ctx, "k")
		return err == nil && v == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()
	in := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", in, 0))
	in[0] = 'x'
	out, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
	out[0] = 'y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(ctx, "k", []byte{byte(i)}, time.Minute)
			_, _ = c.Get(ctx, "k")
			_ = c.DeletePrefix(ctx, "x")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

// TestRedis needs a server; set OCEAN_REDIS_ADDR to run it.
func TestRedis(t *testing.T) {
	addr := os.Getenv("OCEAN_REDIS_ADDR")
	if addr == "" {
		t.Skip("OCEAN_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := cache.Dial(ctx, addr, "ocean-test:"+t.Name()+":")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Clear(ctx)
		_ = c.Close()
	})
	testCache(t, c)
}

func TestRedisUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := cache.Dial(ctx, "127.0.0.1:1", "p:")
	assert.Error(t, err)

	// Operations on a client that cannot connect report errors, not misses.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	c := cache.NewRedis(client, "p:")
	defer c.Close()
	_, err = c.Get(ctx, "k")
	assert.Error(t, err)
}

//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestRedis(t *testing.T) *RedisClient {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(RedisConfig{
		Addr:   fmt.Sprintf("%s:%s", host, port.Port()),
		Prefix: "test:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisClient(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	t.Run("get set delete", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCacheMiss)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))

		require.NoError(t, c.Delete(ctx, "k"))
		_, err = c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("delete by prefix", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, SearchKey("s1", "onix"), []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, SearchKey("s1", "hb20"), []byte("2"), time.Minute))
		require.NoError(t, c.Set(ctx, "keep", []byte("3"), time.Minute))

		require.NoError(t, c.DeleteByPrefix(ctx, SearchPrefix))

		_, err := c.Get(ctx, SearchKey("s1", "onix"))
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = c.Get(ctx, "keep")
		assert.NoError(t, err)
	})

	t.Run("publish subscribe", func(t *testing.T) {
		ch, unsubscribe, err := c.Subscribe(ctx, "events")
		require.NoError(t, err)
		defer unsubscribe()

		require.NoError(t, c.Publish(ctx, "events", map[string]string{"id": "snap"}))

		select {
		case msg := <-ch:
			assert.JSONEq(t, `{"id":"snap"}`, string(msg))
		case <-time.After(5 * time.Second):
			t.Fatal("no message received")
		}
	})
}

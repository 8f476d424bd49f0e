package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_GetSet(t *testing.T) {
	c := NewMemoryClient(10)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("payload")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got), "stored value must not alias the caller's slice")

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_Expiry(t *testing.T) {
	c := NewMemoryClient(10)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)

	c.purgeExpired(time.Now())
	assert.Equal(t, 1, c.Len())
}

func TestMemoryClient_EvictsWhenFull(t *testing.T) {
	c := NewMemoryClient(3)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "soon", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "later", []byte("2"), time.Hour))
	require.NoError(t, c.Set(ctx, "never", []byte("3"), 0))
	require.NoError(t, c.Set(ctx, "new", []byte("4"), time.Hour))

	assert.Equal(t, 3, c.Len())
	_, err := c.Get(ctx, "soon")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "never")
	assert.NoError(t, err)

	// Overwriting an existing key never evicts.
	require.NoError(t, c.Set(ctx, "new", []byte("5"), time.Hour))
	assert.Equal(t, 3, c.Len())
}

func TestMemoryClient_DeleteByPrefix(t *testing.T) {
	c := NewMemoryClient(100)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(ctx, SearchKey("snap-1", fmt.Sprintf("query %d", i)), []byte("r"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, "other:key", []byte("x"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, SearchPrefix))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryClient_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryClient(1)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestSearchKey(t *testing.T) {
	a := SearchKey("snap-1", "Onix  Branco até 50 mil")
	b := SearchKey("snap-1", "onix branco ate 50 mil")
	c := SearchKey("snap-2", "onix branco ate 50 mil")

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
	assert.Contains(t, a, "search:snap-1:")
	assert.Equal(t, "a:b:c", CacheKey("a", "b", "c"))
}

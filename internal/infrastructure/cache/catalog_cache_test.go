package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newRedisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestFetchJSON_PoblaYLuegoLeeDeRedis(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []product{{ID: 1, Name: "Tornillo"}}, nil
	}

	key, err := c.Key(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "catalog:products:1", key)

	var first, second []product
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestInvalidate_CambiaLaClave(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	k1, err := c.Key(ctx, "products")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	k2, err := c.Key(ctx, "products")
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, "catalog:products:2", k2)
}

func TestCacheNil_DelegaEnLoader(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	key, err := c.Key(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "catalog:products", key)

	var out []product
	err = c.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return []product{{ID: 2}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out[0].ID)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestFetchJSON_ErrorDelLoaderNoSeCachea(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	boom := errors.New("backend caído")

	var out []product
	err := c.FetchJSON(ctx, "catalog:products:1", &out, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("catalog:products:1"))

	assert.Error(t, c.FetchJSON(ctx, "k", &out, nil))
}

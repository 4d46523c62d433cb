package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheSetGetExpire(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "k", cachedThing{Name: "a", Count: 2}, time.Minute))

	var got cachedThing
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedThing{Name: "a", Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheVersions(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()

	v, err := CacheVersion(ctx, rdb, "ver")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, BumpVersion(ctx, rdb, "ver", "other"))
	require.NoError(t, BumpVersion(ctx, rdb, "ver"))
	v, err = CacheVersion(ctx, rdb, "ver")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var dest cachedThing
	found, err := GetCache(ctx, nil, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", dest, time.Minute))
	assert.NoError(t, BumpVersion(ctx, nil, "k"))
}

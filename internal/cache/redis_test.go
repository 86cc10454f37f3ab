package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSession struct {
	UserID    int64 `json:"user_id"`
	ExpiresAt int64 `json:"expires_at"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Cache{Db: client}, mr
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	want := cachedSession{UserID: 42, ExpiresAt: 1700000000}
	require.NoError(t, c.Set(ctx, "session:tok", want, time.Minute))

	var got cachedSession
	found, err := c.Get(ctx, "session:tok", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got cachedSession
	found, err := c.Get(context.Background(), "session:absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:tok", cachedSession{UserID: 1}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "session:tok"))

	var got cachedSession
	found, err := c.Get(ctx, "session:tok", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Expiration(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:tok", cachedSession{UserID: 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var got cachedSession
	found, err := c.Get(ctx, "session:tok", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

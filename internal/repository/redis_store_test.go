package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)

	exerciseStore(t, store)
}

func TestRedisStore_KeysExpire(t *testing.T) {
	store, mr := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "s1", "cart", []byte(`[]`)))

	assert.True(t, mr.Exists("storefront:session:s1:cart"))
	assert.Equal(t, 30*time.Minute, mr.TTL("storefront:session:s1:cart"))

	mr.FastForward(31 * time.Minute)

	value, err := store.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url://", time.Hour)

	assert.Error(t, err)
}

func TestNewRedisStore_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr()+"/0", time.Hour)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store SessionStore) {
	ctx := context.Background()

	value, err := store.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "s1", "cart", []byte(`[{"_id":"a","qty":1}]`)))
	require.NoError(t, store.Set(ctx, "s1", "coupon", []byte("HEMAT10")))
	require.NoError(t, store.Set(ctx, "s2", "cart", []byte(`[]`)))

	value, err = store.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"_id":"a","qty":1}]`, string(value))

	require.NoError(t, store.Set(ctx, "s1", "cart", []byte(`[{"_id":"a","qty":3}]`)))
	value, err = store.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"_id":"a","qty":3}]`, string(value))

	value, err = store.Get(ctx, "s2", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, store.Delete(ctx, "s1", "cart"))
	value, err = store.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = store.Get(ctx, "s1", "coupon")
	require.NoError(t, err)
	assert.Equal(t, "HEMAT10", string(value))

	require.NoError(t, store.Delete(ctx, "missing", "cart"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	exerciseStore(t, store)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")

	require.NoError(t, store.Set(ctx, "s", "k", buf))
	buf[0] = 'x'

	value, _ := store.Get(ctx, "s", "k")
	assert.Equal(t, "abc", string(value))
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state", "state.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "local", "filters", []byte("q=kopi")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "local", "filters")
	require.NoError(t, err)
	assert.Equal(t, "q=kopi", string(value))
}

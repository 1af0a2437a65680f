package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "cart-items")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "cart-items", []byte(`[{"id":1}]`)))

	value, err := store.Get(ctx, "cart-items")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), value)

	require.NoError(t, store.Delete(ctx, "cart-items"))
	_, err = store.Get(ctx, "cart-items")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "k", original))
	original[0] = 'X'

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), value)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	store := NewFileStore(path)
	ctx := context.Background()

	_, err := store.Get(ctx, "cart-items")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "cart-items", []byte(`[{"id":1,"qty":2}]`)))
	require.NoError(t, store.Set(ctx, "other", []byte(`"x"`)))

	// A fresh store over the same file sees the same data.
	reopened := NewFileStore(path)
	value, err := reopened.Get(ctx, "cart-items")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"qty":2}]`, string(value))

	require.NoError(t, reopened.Delete(ctx, "cart-items"))
	_, err = reopened.Get(ctx, "cart-items")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Unrelated keys survive the delete.
	value, err = reopened.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"x"`), value)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	store := NewFileStore(path)
	ctx := context.Background()

	_, err := store.Get(ctx, "cart-items")
	assert.Error(t, err)

	// Writing replaces the corrupt file instead of failing forever.
	require.NoError(t, store.Set(ctx, "cart-items", []byte(`[]`)))
	value, err := store.Get(ctx, "cart-items")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
}

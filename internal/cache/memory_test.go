package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v"), 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, store.Put(ctx, "k", []byte("new"), time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestMemoryStoreCompact(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "dead1", []byte("v"), time.Millisecond))
	require.NoError(t, store.Put(ctx, "dead2", []byte("v"), time.Millisecond))
	require.NoError(t, store.Put(ctx, "alive", []byte("v"), time.Minute))
	require.NoError(t, store.Put(ctx, "forever", []byte("v"), 0))

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, store.Compact())

	_, err := store.Get(ctx, "alive")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "forever")
	assert.NoError(t, err)
}

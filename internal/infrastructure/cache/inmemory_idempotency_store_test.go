package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	ctx := context.Background()

	t.Run("marks a new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "checkout-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("rejects a repeated key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "checkout-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "checkout-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("accepts a key again after expiry", func(t *testing.T) {
		now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }
		defer func() { store.now = time.Now }()

		isNew, err := store.MarkProcessed(ctx, "checkout-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		now = now.Add(2 * time.Minute)
		isNew, err = store.MarkProcessed(ctx, "checkout-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_ForgetAndIsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	processed, _ = store.IsProcessed(ctx, "k")
	assert.True(t, processed)

	require.NoError(t, store.Forget(ctx, "k"))
	processed, _ = store.IsProcessed(ctx, "k")
	assert.False(t, processed)

	isNew, _ := store.MarkProcessed(ctx, "k", time.Hour)
	assert.True(t, isNew, "a forgotten key can be claimed again")
}

func TestInMemoryIdempotencyStore_Concurrent(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same-key", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, _ = store.MarkProcessed(context.Background(), "short", time.Minute)
	_, _ = store.MarkProcessed(context.Background(), "long", time.Hour)
	require.Equal(t, 2, store.Size())

	now = now.Add(10 * time.Minute)
	store.sweep()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

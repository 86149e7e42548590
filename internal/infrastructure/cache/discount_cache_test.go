package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var pinnedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newDiscount(t *testing.T, name string) catalog.Discount {
	t.Helper()
	d, err := catalog.NewDiscount(name, catalog.DiscountTypePercentage, decimal.NewFromInt(10), pinnedNow.AddDate(0, 0, -1), nil)
	require.NoError(t, err)
	d.DiscardEvents()
	return *d
}

type countingSource struct {
	calls     int
	discounts []catalog.Discount
	err       error
}

func (s *countingSource) ActiveDiscounts(context.Context, time.Time) ([]catalog.Discount, error) {
	s.calls++
	return s.discounts, s.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]catalog.Discount, int64, bool, error) {
	return nil, 0, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, int64, []catalog.Discount, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Invalidate(context.Context) error {
	return errors.New("connection refused")
}

func TestMemoryDiscountCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c := NewMemoryDiscountCache()
		_, gen, ok, err := c.Get(ctx, "2025-06-15")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, "2025-06-15", gen, []catalog.Discount{newDiscount(t, "Summer")}, time.Minute))
		got, _, ok, err := c.Get(ctx, "2025-06-15")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Summer", got[0].Name)
	})

	t.Run("stale generation is not stored", func(t *testing.T) {
		c := NewMemoryDiscountCache()
		_, gen, _, _ := c.Get(ctx, "2025-06-15")
		require.NoError(t, c.Invalidate(ctx))

		require.NoError(t, c.Set(ctx, "2025-06-15", gen, []catalog.Discount{newDiscount(t, "Old")}, time.Minute))
		_, _, ok, _ := c.Get(ctx, "2025-06-15")
		assert.False(t, ok)
		assert.Zero(t, c.Len())
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewMemoryDiscountCache()
		now := pinnedNow
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "2025-06-15", 0, []catalog.Discount{}, time.Minute))
		_, _, ok, _ := c.Get(ctx, "2025-06-15")
		assert.True(t, ok)

		now = now.Add(time.Hour)
		_, _, ok, _ = c.Get(ctx, "2025-06-15")
		assert.False(t, ok)
	})
}

func TestCachedDiscountSource(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once per day", func(t *testing.T) {
		src := &countingSource{discounts: []catalog.Discount{newDiscount(t, "Summer")}}
		cached := NewCachedDiscountSource(src, NewMemoryDiscountCache(), time.Minute, zaptest.NewLogger(t))

		for i := 0; i < 3; i++ {
			got, err := cached.ActiveDiscounts(ctx, pinnedNow)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		}
		assert.Equal(t, 1, src.calls)

		_, err := cached.ActiveDiscounts(ctx, pinnedNow.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)
	})

	t.Run("days follow the clock's location", func(t *testing.T) {
		src := &countingSource{}
		cached := NewCachedDiscountSource(src, NewMemoryDiscountCache(), time.Minute, nil)
		auckland := time.FixedZone("NZST", 12*60*60)

		// Both instants fall on 15 June in UTC but on different local days
		lateEvening := time.Date(2025, 6, 15, 23, 0, 0, 0, auckland)
		nextMorning := time.Date(2025, 6, 16, 9, 0, 0, 0, auckland)
		require.Equal(t, lateEvening.UTC().YearDay(), nextMorning.UTC().YearDay())

		_, err := cached.ActiveDiscounts(ctx, lateEvening)
		require.NoError(t, err)
		_, err = cached.ActiveDiscounts(ctx, nextMorning)
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)

		_, err = cached.ActiveDiscounts(ctx, nextMorning.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)
	})

	t.Run("source errors are returned and not cached", func(t *testing.T) {
		src := &countingSource{err: errors.New("db down")}
		cache := NewMemoryDiscountCache()
		cached := NewCachedDiscountSource(src, cache, time.Minute, nil)

		_, err := cached.ActiveDiscounts(ctx, pinnedNow)
		assert.Error(t, err)
		assert.Zero(t, cache.Len())
	})

	t.Run("cache failures fall through to the source", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		src := &countingSource{discounts: []catalog.Discount{newDiscount(t, "Summer")}}
		cached := NewCachedDiscountSource(src, brokenCache{}, time.Minute, zap.New(core))

		got, err := cached.ActiveDiscounts(ctx, pinnedNow)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 1, logs.FilterMessage("Discount cache read failed").Len())
		assert.Equal(t, 1, logs.FilterMessage("Discount cache write failed").Len())
	})
}

func TestDiscountCacheInvalidator(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryDiscountCache()
	h := NewDiscountCacheInvalidator(cache, zaptest.NewLogger(t))

	assert.ElementsMatch(t, []string{
		catalog.EventTypeDiscountChanged,
		catalog.EventTypeBrandDeleted,
		catalog.EventTypeProductChanged,
	}, h.EventTypes())

	fill := func() {
		require.NoError(t, cache.Invalidate(ctx))
		_, gen, _, _ := cache.Get(ctx, "2025-06-15")
		require.NoError(t, cache.Set(ctx, "2025-06-15", gen, []catalog.Discount{}, time.Minute))
		require.Equal(t, 1, cache.Len())
	}

	d := newDiscount(t, "Summer")
	fill()
	require.NoError(t, h.Handle(ctx, catalog.NewDiscountChangedEvent(&d, catalog.DiscountActionDeactivated)))
	assert.Zero(t, cache.Len())

	product := &catalog.Product{}
	product.ID = uuid.New()

	fill()
	require.NoError(t, h.Handle(ctx, catalog.NewProductChangedEvent(product, catalog.ProductActionUpdated)))
	assert.Equal(t, 1, cache.Len(), "product updates keep the cache")

	require.NoError(t, h.Handle(ctx, catalog.NewProductChangedEvent(product, catalog.ProductActionDeleted)))
	assert.Zero(t, cache.Len())

	failing := NewDiscountCacheInvalidator(brokenCache{}, nil)
	assert.Error(t, failing.Handle(ctx, catalog.NewDiscountChangedEvent(&d, catalog.DiscountActionDeleted)))
}

func TestNewStores_Memory(t *testing.T) {
	stores, err := NewStores(context.Background(), shopConfig(config.CacheBackendMemory), redisConfig(), false, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer stores.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &MemoryDiscountCache{}, stores.Discounts)
	assert.Nil(t, stores.Redis())
}

func TestNewStores_RedisUnavailable(t *testing.T) {
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	stores, err := NewStores(context.Background(), shopConfig(config.CacheBackendRedis), unreachable, false, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer stores.Close()
	assert.IsType(t, &MemoryDiscountCache{}, stores.Discounts)

	_, err = NewStores(context.Background(), shopConfig(config.CacheBackendRedis), unreachable, true, nil)
	assert.Error(t, err)
}

func shopConfig(backend string) config.ShopConfig {
	return config.ShopConfig{CacheBackend: backend}
}

func redisConfig() config.RedisConfig {
	return config.RedisConfig{Host: "localhost", Port: 6379}
}

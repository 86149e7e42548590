package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
)

// DiscountCache stores the active discount list per pricing day.
//
// Entries are stamped with a generation. Invalidate bumps the generation,
// and Set refuses to store a list loaded under an older generation, so a
// reader that raced a discount edit cannot put stale prices back.
type DiscountCache interface {
	// Get returns the cached list for day and the current generation.
	// ok is false on a miss; gen is still valid for a following Set.
	Get(ctx context.Context, day string) (discounts []catalog.Discount, gen int64, ok bool, err error)
	// Set stores discounts for day if gen is still current
	Set(ctx context.Context, day string, gen int64, discounts []catalog.Discount, ttl time.Duration) error
	// Invalidate drops every cached day
	Invalidate(ctx context.Context) error
}

type memoryDiscountEntry struct {
	discounts []catalog.Discount
	expiresAt time.Time
}

// MemoryDiscountCache is a process-local DiscountCache
type MemoryDiscountCache struct {
	mu      sync.RWMutex
	gen     int64
	entries map[string]memoryDiscountEntry
	now     func() time.Time
}

// NewMemoryDiscountCache creates an empty in-memory cache
func NewMemoryDiscountCache() *MemoryDiscountCache {
	return &MemoryDiscountCache{
		entries: make(map[string]memoryDiscountEntry),
		now:     time.Now,
	}
}

// Get implements DiscountCache
func (c *MemoryDiscountCache) Get(_ context.Context, day string) ([]catalog.Discount, int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[day]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, c.gen, false, nil
	}
	return cloneDiscounts(entry.discounts), c.gen, true, nil
}

// Set implements DiscountCache
func (c *MemoryDiscountCache) Set(_ context.Context, day string, gen int64, discounts []catalog.Discount, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return nil
	}
	c.entries[day] = memoryDiscountEntry{
		discounts: cloneDiscounts(discounts),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Invalidate implements DiscountCache
func (c *MemoryDiscountCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.gen++
	c.entries = make(map[string]memoryDiscountEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached days
func (c *MemoryDiscountCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneDiscounts(in []catalog.Discount) []catalog.Discount {
	if in == nil {
		return nil
	}
	out := make([]catalog.Discount, len(in))
	copy(out, in)
	return out
}

const defaultDiscountPrefix = "drobe:discounts:"

// RedisDiscountCache shares the discount list between instances. The
// generation lives in its own key; entry keys embed it, so bumping the
// generation orphans old entries until their TTL runs out.
type RedisDiscountCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisDiscountCache creates a cache on a shared client
func NewRedisDiscountCache(client redis.UniversalClient, prefix string) *RedisDiscountCache {
	if prefix == "" {
		prefix = defaultDiscountPrefix
	}
	return &RedisDiscountCache{client: client, prefix: prefix}
}

func (c *RedisDiscountCache) genKey() string {
	return c.prefix + "gen"
}

func (c *RedisDiscountCache) entryKey(gen int64, day string) string {
	return fmt.Sprintf("%s%d:%s", c.prefix, gen, day)
}

func (c *RedisDiscountCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read discount cache generation: %w", err)
	}
	return gen, nil
}

// Get implements DiscountCache
func (c *RedisDiscountCache) Get(ctx context.Context, day string) ([]catalog.Discount, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.client.Get(ctx, c.entryKey(gen, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("read cached discounts: %w", err)
	}
	var discounts []catalog.Discount
	if err := json.Unmarshal(raw, &discounts); err != nil {
		return nil, gen, false, fmt.Errorf("decode cached discounts: %w", err)
	}
	return discounts, gen, true, nil
}

// Set implements DiscountCache
func (c *RedisDiscountCache) Set(ctx context.Context, day string, gen int64, discounts []catalog.Discount, ttl time.Duration) error {
	current, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if current != gen {
		return nil
	}
	raw, err := json.Marshal(discounts)
	if err != nil {
		return fmt.Errorf("encode discounts: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(gen, day), raw, ttl).Err(); err != nil {
		return fmt.Errorf("write cached discounts: %w", err)
	}
	return nil
}

// Invalidate implements DiscountCache
func (c *RedisDiscountCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("bump discount cache generation: %w", err)
	}
	return nil
}

var (
	_ DiscountCache = (*MemoryDiscountCache)(nil)
	_ DiscountCache = (*RedisDiscountCache)(nil)
)

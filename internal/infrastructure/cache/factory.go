package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}
	return client, nil
}

// Stores bundles the caches the shop runs on
type Stores struct {
	Idempotency shared.IdempotencyStore
	Discounts   DiscountCache
	redis       *redis.Client
}

// Close releases the stores and the Redis connection if one was opened
func (s *Stores) Close() error {
	if s.Idempotency != nil {
		_ = s.Idempotency.Close()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

// Redis returns the Redis client behind the stores, or nil for the memory
// backend
func (s *Stores) Redis() *redis.Client {
	return s.redis
}

// NewStores builds the idempotency store and discount cache for the
// configured backend. With the redis backend an unreachable server falls
// back to memory unless strict is set.
func NewStores(ctx context.Context, shop config.ShopConfig, redisCfg config.RedisConfig, strict bool, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if shop.CacheBackend == config.CacheBackendRedis {
		client, err := NewRedisClient(ctx, redisCfg)
		if err == nil {
			logger.Info("Using Redis cache backend", zap.String("addr", redisCfg.RedisAddr()))
			return &Stores{
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Discounts:   NewRedisDiscountCache(client, ""),
				redis:       client,
			}, nil
		}
		if strict {
			return nil, err
		}
		logger.Warn("Redis unavailable, falling back to in-memory caches", zap.Error(err))
	}

	logger.Info("Using in-memory cache backend")
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(0),
		Discounts:   NewMemoryDiscountCache(),
	}, nil
}

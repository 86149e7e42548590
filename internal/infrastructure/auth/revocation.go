package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList rejects tokens issued to a customer before a cut-off.
// Customer erasure revokes every outstanding token of the erased customer.
type RevocationList interface {
	// RevokeCustomer rejects tokens for customerID issued at or before now.
	// ttl should cover the longest token lifetime.
	RevokeCustomer(ctx context.Context, customerID string, ttl time.Duration) error
	// IsRevoked reports whether a token issued at issuedAt is revoked
	IsRevoked(ctx context.Context, customerID string, issuedAt time.Time) (bool, error)
}

// RedisRevocationList stores one cut-off timestamp per customer
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
	now       func() time.Time
}

// NewRedisRevocationList creates a revocation list on a shared client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{
		client:    client,
		keyPrefix: "drobe:revoked:customer:",
		now:       time.Now,
	}
}

// RevokeCustomer implements RevocationList
func (r *RedisRevocationList) RevokeCustomer(ctx context.Context, customerID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.keyPrefix+customerID, r.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke customer tokens: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (r *RedisRevocationList) IsRevoked(ctx context.Context, customerID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, r.keyPrefix+customerID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// InMemoryRevocationList is a single-process RevocationList
type InMemoryRevocationList struct {
	mu      sync.RWMutex
	cutoffs map[string]time.Time
	now     func() time.Time
}

// NewInMemoryRevocationList creates an empty revocation list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		cutoffs: make(map[string]time.Time),
		now:     time.Now,
	}
}

// RevokeCustomer implements RevocationList. Entries do not expire.
func (r *InMemoryRevocationList) RevokeCustomer(_ context.Context, customerID string, _ time.Duration) error {
	r.mu.Lock()
	r.cutoffs[customerID] = r.now()
	r.mu.Unlock()
	return nil
}

// IsRevoked implements RevocationList
func (r *InMemoryRevocationList) IsRevoked(_ context.Context, customerID string, issuedAt time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff, ok := r.cutoffs[customerID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ RevocationList = (*InMemoryRevocationList)(nil)

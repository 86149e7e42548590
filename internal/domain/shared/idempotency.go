package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a checkout Idempotency-Key is remembered
// when no TTL is configured
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers keys that were already handled. Checkout keys
// it by customer and the client's Idempotency-Key.
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It reports false when the key was
	// already recorded, which callers treat as a duplicate request.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget removes key so a failed operation may be retried with it
	Forget(ctx context.Context, key string) error
	Close() error
}

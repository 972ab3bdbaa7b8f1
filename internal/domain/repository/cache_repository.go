package repository

import (
	"context"
	"time"
)

// TokenCache caches short-lived gateway credentials. All operations
// are best-effort: a miss or a cache failure means a fresh fetch,
// never a surfaced error.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

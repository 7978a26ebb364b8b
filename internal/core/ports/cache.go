package ports

import (
	"context"
	"time"
)

// Cache is a TTL key/value cache with prefix invalidation. Values are opaque
// encoded bytes so no caller can mutate a cached entry in place.
type Cache interface {
	// Get returns ok=false when the key was never set or has expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidatePrefix removes every entry whose key starts with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

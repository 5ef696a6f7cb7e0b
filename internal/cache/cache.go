package cache

import (
	"context"
	"time"
)

// Store is a TTL key-value store holding JSON documents.
type Store interface {
	// Get decodes the value stored under key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Put stores v under key for ttl.
	Put(ctx context.Context, key string, v any, ttl time.Duration) error
	// Forget removes the key.
	Forget(ctx context.Context, key string) error
}

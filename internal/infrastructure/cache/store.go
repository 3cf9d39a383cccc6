// Package cache holds TTL stores for computed report payloads, backed by
// Redis or process memory.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value store for serialized payloads.
type Store interface {
	// Get returns the value of key and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Incr atomically increments the integer counter at key and returns the
	// new value. A missing key counts from zero.
	Incr(ctx context.Context, key string) (int64, error)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}

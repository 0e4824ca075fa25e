// Package cache provides the key-value abstraction behind the OTP store.
// Production deployments back it with Redis so pending codes survive a
// process restart and are shared across instances; tests and single-node
// setups use the in-memory implementation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when a key is absent or expired.
var ErrKeyNotFound = errors.New("cache: key not found")

// Store is a minimal expiring key-value store.
type Store interface {
	// Put stores value under key, overwriting any prior entry. A ttl <= 0
	// means no expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the stored value or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Package store provides the TTL key/value abstraction shared by the token
// cache and the event loop breaker. Entries expire via the backing store;
// callers never see a value past its TTL.
package store

import (
	"context"
	"time"
)

// Store is a TTL key/value store.
type Store interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put writes value under key with the given time-to-live, overwriting
	// any previous value. A ttl <= 0 is rejected by implementations.
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
}

package ports

import (
	"context"
	"time"
)

// Mutual exclusion keyed by an arbitrary string (vehicle id, parcel id).
type Locker interface {
	// Acquire blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl if never released. The returned release
	// function is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

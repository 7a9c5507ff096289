// Package lock provides per-entity mutual exclusion for read-modify-write
// sequences on carts and orders.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

type Locker interface {
	// Lock blocks until key is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
}

const (
	CartKeyPrefix  = "cart"
	OrderKeyPrefix = "order"

	pollInterval = 25 * time.Millisecond
)

func Key(prefix, id string) string {
	return "lock:" + prefix + ":" + id
}

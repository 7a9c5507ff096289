package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded read models. A miss is reported as found=false,
// never as an error.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	OrderKeyPrefix   = "order"
	AccountKeyPrefix = "account"
)

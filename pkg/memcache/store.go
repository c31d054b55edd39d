// pkg/memcache/store.go
package mem

import (
	"context"
	"time"
)

// Store is a byte cache with per-entry TTL. Misses and backend failures
// both read as "not found"; callers recompute.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

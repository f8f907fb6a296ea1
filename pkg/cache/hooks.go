package cache

import (
	"context"
	"time"

	"github.com/matzehuels/stackmap/pkg/observability"
)

// Instrumented reports hits, misses and writes of the wrapped cache to the
// registered [observability.CacheHooks].
type Instrumented struct {
	Cache
}

// WithHooks wraps c. Wrapping an already instrumented cache returns it
// unchanged.
func WithHooks(c Cache) Cache {
	if _, ok := c.(Instrumented); ok {
		return c
	}
	return Instrumented{Cache: c}
}

func (i Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := i.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (i Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := i.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// Clear forwards to the wrapped cache when it implements [Clearer].
func (i Instrumented) Clear(ctx context.Context) error {
	if c, ok := i.Cache.(Clearer); ok {
		return c.Clear(ctx)
	}
	return nil
}

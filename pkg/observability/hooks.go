// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about mapping runs, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMapHooks(&myMapHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Map().OnMapStart(ctx, arch, vertices)
//	// ... recursive bipartitioning ...
//	observability.Map().OnMapComplete(ctx, arch, domains, duration, err)
//
// Hooks may be called from many goroutines at once: the mapper reports
// bipartitions from every concurrent branch. Implementations must be safe
// for concurrent use.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Map Hooks
// =============================================================================

// MapHooks receives events from mapping runs.
type MapHooks interface {
	// OnMapStart records the start of a mapping run.
	OnMapStart(ctx context.Context, arch string, vertices int)

	// OnBipartition records one bipartition of a recursion frame. counts
	// holds the number of vertices in each part; a zero count means the
	// frame fell back to a single domain.
	OnBipartition(ctx context.Context, depth, vertices int, counts [2]int, duration time.Duration)

	// OnMapComplete records the end of a mapping run.
	OnMapComplete(ctx context.Context, arch string, domains int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API server.
type APIHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMapHooks is a no-op implementation of MapHooks.
type NoopMapHooks struct{}

func (NoopMapHooks) OnMapStart(context.Context, string, int)                          {}
func (NoopMapHooks) OnBipartition(context.Context, int, int, [2]int, time.Duration)   {}
func (NoopMapHooks) OnMapComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	mapHooks   MapHooks   = NoopMapHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	apiHooks   APIHooks   = NoopAPIHooks{}
	hooksMu    sync.RWMutex
)

// SetMapHooks registers custom mapping hooks.
// This should be called once at application startup before any mapping runs.
func SetMapHooks(h MapHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mapHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
// This should be called once at application startup before the server starts.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Map returns the registered mapping hooks.
func Map() MapHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mapHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	mapHooks = NoopMapHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}

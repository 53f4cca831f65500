// Package observability provides hooks for metrics and logging.
//
// The library itself never writes logs. Instead it reports events through
// the hooks registered here, and the application decides what to do with
// them: the tmio CLI logs them at debug level, a server might export them
// as metrics.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Cache failures in particular are only visible here: the fetcher swallows
// them and reports them through [CacheHooks.OnCacheError].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnCacheMiss(ctx, key)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the cache-aside fetcher.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int, ttl time.Duration)

	// OnCacheError records a backend failure that was swallowed.
	OnCacheError(ctx context.Context, op, key string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Rate Limit Hooks
// =============================================================================

// RateLimitHooks receives events from multi-page loops that self-throttle.
type RateLimitHooks interface {
	// OnPause records that a loop is about to sleep.
	OnPause(ctx context.Context, remaining int, backoff time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                     {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                    {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int, time.Duration) {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopRateLimitHooks is a no-op implementation of RateLimitHooks.
type NoopRateLimitHooks struct{}

func (NoopRateLimitHooks) OnPause(context.Context, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	rateLimitHooks RateLimitHooks = NoopRateLimitHooks{}
	hooksMu        sync.RWMutex
)

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetRateLimitHooks registers custom rate-limit hooks.
func SetRateLimitHooks(h RateLimitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rateLimitHooks = h
	}
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// RateLimit returns the registered rate-limit hooks.
func RateLimit() RateLimitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rateLimitHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	rateLimitHooks = NoopRateLimitHooks{}
}

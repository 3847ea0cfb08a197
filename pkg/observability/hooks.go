// Package observability lets an application observe schedule builds, cache
// traffic and API requests without the libraries depending on a metrics or
// tracing backend.
//
// Libraries fire events through the getters:
//
//	observability.Schedule().OnBuildStart(ctx, g.Name(), g.NumberOfNodes())
//
// and the application registers implementations at startup. Until it does,
// every event goes to a no-op. [LogHooks] is a ready-made implementation
// that writes events to a charmbracelet logger at debug level:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetScheduleHooks(h)
//	observability.SetCacheHooks(h)
package observability

import (
	"context"
	"sync"
	"time"
)

// ScheduleHooks receives events from schedule construction.
type ScheduleHooks interface {
	OnBuildStart(ctx context.Context, graph string, nodeCount int)
	// OnBuildComplete fires once per OnBuildStart; err is non-nil when the
	// graph failed its integrity check.
	OnBuildComplete(ctx context.Context, graph string, duration time.Duration, err error)
}

// CacheHooks receives schedule cache traffic. keyType names the kind of
// entry, currently always "schedule".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopScheduleHooks discards schedule events.
type NoopScheduleHooks struct{}

func (NoopScheduleHooks) OnBuildStart(context.Context, string, int)                     {}
func (NoopScheduleHooks) OnBuildComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu       sync.RWMutex
	schedule ScheduleHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		schedule: NoopScheduleHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

// SetScheduleHooks registers h. A nil h is ignored.
func SetScheduleHooks(h ScheduleHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.schedule = h
	hooks.mu.Unlock()
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Schedule returns the registered schedule hooks.
func Schedule() ScheduleHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.schedule
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores the no-op hooks. Tests that register hooks defer it.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.schedule, hooks.cache, hooks.http = fresh.schedule, fresh.cache, fresh.http
	hooks.mu.Unlock()
}

package render

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/observability"
)

// cacheKeyType labels render entries in cache hooks.
const cacheKeyType = "render"

// CachedEngine wraps an Engine with a cache of rendered output.
// Probe is never cached. Cache failures are not fatal: a failed read falls
// through to the engine and a failed write is ignored.
type CachedEngine struct {
	Engine Engine
	Cache  cache.Cache
	TTL    time.Duration // zero keeps entries until evicted
}

// NewCachedEngine wraps eng. A nil cache disables caching.
func NewCachedEngine(eng Engine, c cache.Cache, ttl time.Duration) *CachedEngine {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedEngine{Engine: eng, Cache: c, TTL: ttl}
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string { return e.Engine.Name() }

// Probe delegates to the wrapped engine.
func (e *CachedEngine) Probe(ctx context.Context) error { return e.Engine.Probe(ctx) }

// Render returns cached output for req when present, otherwise renders and
// stores the result.
func (e *CachedEngine) Render(ctx context.Context, req Request) ([]byte, error) {
	key := cache.RenderKey(engineID(e.Engine), req.Layout, req.Format, req.DOT)
	hooks := observability.Cache()

	if data, ok, err := e.Cache.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, cacheKeyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	out, err := e.Engine.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.Cache.Set(ctx, key, out, e.TTL); err == nil {
		hooks.OnCacheSet(ctx, cacheKeyType, len(out))
	}
	return out, nil
}

// engineID names eng in cache keys. Engines sharing a Name but backed by
// different Graphviz installs tell themselves apart through String.
func engineID(eng Engine) string {
	if s, ok := eng.(fmt.Stringer); ok {
		return s.String()
	}
	return eng.Name()
}

var _ Engine = (*CachedEngine)(nil)

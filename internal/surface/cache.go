package surface

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/couchcryptid/ctdo-kriging-service/internal/domain"
	"github.com/couchcryptid/ctdo-kriging-service/internal/observability"
)

// CachedEngine memoises successful surfaces keyed by depth and field. The
// dataset never changes at runtime, so an entry stays valid until it expires.
type CachedEngine struct {
	inner   Interpolator
	cache   *cache.Cache
	metrics *observability.Metrics
}

// NewCachedEngine creates a cache decorator around an interpolator.
func NewCachedEngine(inner Interpolator, ttl time.Duration, metrics *observability.Metrics) *CachedEngine {
	return &CachedEngine{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

// Interpolate returns a cached surface or computes and stores a fresh one.
func (c *CachedEngine) Interpolate(ctx context.Context, depth float64, variableKey string) (Surface, error) {
	v, err := domain.ResolveVariable(variableKey)
	if err != nil {
		return c.inner.Interpolate(ctx, depth, variableKey)
	}

	key := cacheKey(depth, v.Field)
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.SurfaceCache.WithLabelValues("hit").Inc()
		return cached.(Surface), nil
	}
	c.metrics.SurfaceCache.WithLabelValues("miss").Inc()

	s, err := c.inner.Interpolate(ctx, depth, variableKey)
	if err != nil {
		// Failures are not cached so a cancelled request does not poison later ones.
		return Surface{}, err
	}
	c.cache.SetDefault(key, s)
	return s, nil
}

// cacheKey identifies a surface by depth and field. Aliased selectors resolve
// to the same field, and -0 is folded into 0 as the dataset does.
func cacheKey(depth float64, field domain.Field) string {
	if depth == 0 {
		depth = 0
	}
	return strconv.FormatFloat(depth, 'g', -1, 64) + "|" + string(field)
}

// CheckReadiness delegates to the wrapped interpolator when it reports readiness.
func (c *CachedEngine) CheckReadiness(ctx context.Context) error {
	if r, ok := c.inner.(interface{ CheckReadiness(context.Context) error }); ok {
		return r.CheckReadiness(ctx)
	}
	return nil
}

// Len is the number of cached surfaces, expired entries included until cleanup.
func (c *CachedEngine) Len() int {
	return c.cache.ItemCount()
}

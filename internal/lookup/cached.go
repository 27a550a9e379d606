package lookup

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
	"golang.org/x/sync/singleflight"
)

const listAllKey = "\x00foods"

// DefaultFlightTimeout bounds a shared upstream call when no timeout is configured
const DefaultFlightTimeout = 10 * time.Second

// CachedLookup memoises successful searches in a bounded LRU with a TTL and
// collapses concurrent requests for the same dish into one upstream call.
// Failures are never cached.
type CachedLookup struct {
	next   domain.FoodLookup
	dishes *expirable.LRU[string, domain.LookupResult]
	names  *expirable.LRU[string, []string]
	group  singleflight.Group

	flightTimeout time.Duration
}

// CacheOption configures a CachedLookup
type CacheOption func(*CachedLookup)

// WithFlightTimeout bounds every upstream call made on behalf of the cache
func WithFlightTimeout(d time.Duration) CacheOption {
	return func(c *CachedLookup) {
		if d > 0 {
			c.flightTimeout = d
		}
	}
}

// NewCachedLookup wraps next. size <= 0 disables caching but keeps request
// collapsing.
func NewCachedLookup(next domain.FoodLookup, size int, ttl time.Duration, opts ...CacheOption) *CachedLookup {
	c := &CachedLookup{next: next, flightTimeout: DefaultFlightTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if size > 0 {
		c.dishes = expirable.NewLRU[string, domain.LookupResult](size, nil, ttl)
		c.names = expirable.NewLRU[string, []string](1, nil, ttl)
	}
	return c
}

func cacheKey(dish string) string {
	return strings.ToLower(strings.TrimSpace(dish))
}

func (c *CachedLookup) Search(ctx context.Context, dishName string) (domain.LookupResult, error) {
	key := cacheKey(dishName)
	if c.dishes != nil {
		if r, ok := c.dishes.Get(key); ok {
			logger.Debug("Lookup cache hit", "dish", dishName)
			return r, nil
		}
	}

	v, err := c.do(ctx, key, func(flightCtx context.Context) (interface{}, error) {
		r, err := c.next.Search(flightCtx, dishName)
		if err != nil {
			return nil, err
		}
		if c.dishes != nil {
			c.dishes.Add(key, r)
		}
		return r, nil
	})
	if err != nil {
		return domain.LookupResult{}, err
	}
	return v.(domain.LookupResult), nil
}

func (c *CachedLookup) ListAll(ctx context.Context) ([]string, error) {
	if c.names != nil {
		if names, ok := c.names.Get(listAllKey); ok {
			return append([]string(nil), names...), nil
		}
	}

	v, err := c.do(ctx, listAllKey, func(flightCtx context.Context) (interface{}, error) {
		names, err := c.next.ListAll(flightCtx)
		if err != nil {
			return nil, err
		}
		if c.names != nil {
			c.names.Add(listAllKey, names)
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

// do runs fn once per key across concurrent callers. The shared call is
// detached from any single caller's cancellation but still ends after the
// flight timeout. A caller that stops waiting forgets the key so the next
// search starts a fresh upstream call.
func (c *CachedLookup) do(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
		defer cancel()
		return fn(flightCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		c.group.Forget(key)
		logger.Debug("Lookup caller gave up", "key", key, "error", ctx.Err())
		return nil, ctx.Err()
	}
}

// Purge drops every cached entry
func (c *CachedLookup) Purge() {
	if c.dishes != nil {
		c.dishes.Purge()
		c.names.Purge()
	}
}

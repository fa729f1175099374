// Package sources wraps the upstream API clients with the response cache
// and the fixed-window rate limiter. Callers see the same interfaces; a
// cache hit skips the window entirely, and an exhausted window surfaces as
// ErrRateLimited, which the queue treats as a transient failure.
package sources

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/cache"
	"github.com/databunker/enrich/internal/ratelimit"
	"github.com/databunker/enrich/pkg/registry"
	"github.com/databunker/enrich/pkg/websearch"
)

// ErrRateLimited is returned when a scope's request window is exhausted.
var ErrRateLimited = eris.New("sources: rate limit window exhausted")

// CachedRegistry wraps a registry client: responses cached per company
// number, calls counted against the "registry" scope.
type CachedRegistry struct {
	client  registry.Client
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	ttl     time.Duration
}

// NewCachedRegistry creates a CachedRegistry.
func NewCachedRegistry(client registry.Client, c *cache.Cache, l *ratelimit.Limiter, ttl time.Duration) *CachedRegistry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedRegistry{client: client, cache: c, limiter: l, ttl: ttl}
}

// GetOfficers returns officers for a company number, from cache when fresh.
func (r *CachedRegistry) GetOfficers(ctx context.Context, companyNumber string) ([]registry.Officer, error) {
	if v, ok := r.cache.Get("registry", companyNumber); ok {
		if officers, ok := v.([]registry.Officer); ok {
			return officers, nil
		}
	}

	if !r.limiter.Allow("registry") {
		remaining, reset := r.limiter.Status("registry")
		zap.L().Warn("registry window exhausted",
			zap.Int("remaining", remaining),
			zap.Time("reset", reset))
		return nil, ErrRateLimited
	}

	officers, err := r.client.GetOfficers(ctx, companyNumber)
	if err != nil {
		return nil, err
	}
	r.cache.Set("registry", companyNumber, officers, r.ttl)
	return officers, nil
}

// CachedSearch wraps a websearch client: snippets cached per query, calls
// counted against the "websearch" scope.
type CachedSearch struct {
	client  websearch.Client
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	ttl     time.Duration
}

// NewCachedSearch creates a CachedSearch.
func NewCachedSearch(client websearch.Client, c *cache.Cache, l *ratelimit.Limiter, ttl time.Duration) *CachedSearch {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedSearch{client: client, cache: c, limiter: l, ttl: ttl}
}

// Search returns snippets for a query, from cache when fresh.
func (s *CachedSearch) Search(ctx context.Context, query string) ([]websearch.Snippet, error) {
	if v, ok := s.cache.Get("websearch", query); ok {
		if snippets, ok := v.([]websearch.Snippet); ok {
			return snippets, nil
		}
	}

	if !s.limiter.Allow("websearch") {
		return nil, ErrRateLimited
	}

	snippets, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Set("websearch", query, snippets, s.ttl)
	return snippets, nil
}

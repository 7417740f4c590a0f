package dex

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache stores quotes for a short TTL so repeated lookups for the same pair
// do not hammer the relay or the REST endpoint.
type Cache interface {
	Get(ctx context.Context, key string) (Quote, bool, error)
	Set(ctx context.Context, key string, quote Quote, ttl time.Duration) error
}

// CachedSource decorates a Source with TTL caching. Cache errors are treated
// as misses so a broken cache never fails a quote.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

// NewCachedSource wraps a source. A nil cache or non-positive TTL returns the
// source unchanged.
func NewCachedSource(source Source, cache Cache, ttl time.Duration) Source {
	if cache == nil || ttl <= 0 {
		return source
	}
	return &CachedSource{source: source, cache: cache, ttl: ttl}
}

// Name forwards the underlying exchange name.
func (s *CachedSource) Name() string { return s.source.Name() }

// Quote serves from the cache when possible and refreshes it after a live hit.
func (s *CachedSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (Quote, error) {
	key := quoteKey(s.source.Name(), tokenIn, tokenOut, amount)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	quote, err := s.source.Quote(ctx, tokenIn, tokenOut, amount)
	if err != nil {
		return Quote{}, err
	}
	_ = s.cache.Set(ctx, key, quote, s.ttl)
	return quote, nil
}

func quoteKey(exchange, tokenIn, tokenOut string, amount float64) string {
	return fmt.Sprintf("quote:%s:%s:%s:%g", exchange, strings.ToUpper(tokenIn), strings.ToUpper(tokenOut), amount)
}

type memoryCacheEntry struct {
	quote     Quote
	expiresAt time.Time
}

// MemoryCache is the in-process cache backend.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get returns a live entry, dropping it when expired.
func (c *MemoryCache) Get(_ context.Context, key string) (Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Quote{}, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return Quote{}, false, nil
	}
	return entry.quote, true, nil
}

// Set stores a quote until its TTL elapses.
func (c *MemoryCache) Set(_ context.Context, key string, quote Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{quote: quote, expiresAt: c.now().Add(ttl)}
	return nil
}

// Package cache provides in-memory caching decorators for provider adapters.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
)

// ClaimsFetcher is the decorated capability.
type ClaimsFetcher interface {
	FetchClaims(ctx context.Context, id string) (domain.GraphEntity, error)
}

// LookupRecorder counts cache hits and misses. May be nil.
type LookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// Claims caches successful claim fetches by entity id. Failed fetches are
// never cached, so a transient outage does not pin a dead end.
type Claims struct {
	next     ClaimsFetcher
	lru      *expirable.LRU[string, domain.GraphEntity]
	recorder LookupRecorder
}

// NewClaims wraps next with an LRU of the given size and ttl.
func NewClaims(next ClaimsFetcher, size int, ttl time.Duration, recorder LookupRecorder) *Claims {
	return &Claims{
		next:     next,
		lru:      expirable.NewLRU[string, domain.GraphEntity](size, nil, ttl),
		recorder: recorder,
	}
}

// FetchClaims returns the cached entity or delegates to the wrapped fetcher.
func (c *Claims) FetchClaims(ctx context.Context, id string) (domain.GraphEntity, error) {
	if e, ok := c.lru.Get(id); ok {
		c.record(true)
		return e, nil
	}
	c.record(false)

	e, err := c.next.FetchClaims(ctx, id)
	if err != nil {
		return e, err
	}
	c.lru.Add(id, e)
	return e, nil
}

// Len returns the number of cached entities.
func (c *Claims) Len() int { return c.lru.Len() }

func (c *Claims) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(hit)
	}
}

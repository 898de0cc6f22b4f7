package application

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

// DefaultCacheTTL is the freshness window for the assembled post list.
const DefaultCacheTTL = 60 * time.Second

// Ingestor produces a fresh post list. Ingestion is not cancellable by
// callers, so it takes no context; implementations run on their own
// lifecycle context.
type Ingestor interface {
	Ingest() ([]*domain.Post, error)
}

const (
	flightKey      = "posts"
	flightKeyForce = "posts:force"
)

// PostCache wraps an Ingestor with a freshness window and single-flight
// coalescing: however many callers arrive while the cache is cold, at most
// one non-forced ingestion runs at a time, and forced refreshes likewise
// share one flight among themselves. A failed refresh propagates to its
// callers without disturbing the last good value.
type PostCache struct {
	ingestor Ingestor
	ttl      time.Duration

	group singleflight.Group

	mu        sync.Mutex
	posts     []*domain.Post
	fetchedAt time.Time
}

var _ domain.PostProvider = (*PostCache)(nil)

// NewPostCache creates a cache around ingestor. A non-positive ttl selects
// DefaultCacheTTL.
func NewPostCache(ingestor Ingestor, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PostCache{
		ingestor: ingestor,
		ttl:      ttl,
	}
}

// GetPosts returns the cached post list when it is still fresh, otherwise
// refreshes it. forceFresh skips the freshness check and never joins a
// non-forced refresh already in flight. The context is accepted for
// interface symmetry only: a refresh already underway cannot be aborted.
func (c *PostCache) GetPosts(_ context.Context, forceFresh bool) ([]*domain.Post, error) {
	if !forceFresh {
		if posts, ok := c.cached(); ok {
			return posts, nil
		}
	}

	key := flightKey
	if forceFresh {
		key = flightKeyForce
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		posts, err := c.ingestor.Ingest()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.posts = posts
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Post), nil
}

func (c *PostCache) cached() ([]*domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.posts == nil || time.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.posts, true
}

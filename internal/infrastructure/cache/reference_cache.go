package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReferenceCache holds the brand and category slug index in memory.
//
// A TTL of zero reloads on every call. Concurrent reloads collapse into one
// database round trip.
type ReferenceCache struct {
	brands     catalog.BrandRepository
	categories catalog.CategoryRepository
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	group    singleflight.Group
	mu       sync.RWMutex
	index    *catalog.ReferenceIndex
	loadedAt time.Time
}

// NewReferenceCache creates a cache over the reference repositories
func NewReferenceCache(brands catalog.BrandRepository, categories catalog.CategoryRepository, ttl time.Duration, logger *zap.Logger) *ReferenceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceCache{
		brands:     brands,
		categories: categories,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// Index returns the cached index, reloading it when older than the TTL
func (c *ReferenceCache) Index(ctx context.Context) (*catalog.ReferenceIndex, error) {
	if idx, ok := c.fresh(); ok {
		return idx, nil
	}

	v, err, _ := c.group.Do("reference", func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.ReferenceIndex), nil
}

// Invalidate forces the next Index call to reload
func (c *ReferenceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil
}

func (c *ReferenceCache) fresh() (*catalog.ReferenceIndex, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil || c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, false
	}
	return c.index, true
}

func (c *ReferenceCache) load(ctx context.Context) (*catalog.ReferenceIndex, error) {
	brands, err := c.brands.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load brands: %w", err)
	}
	categories, err := c.categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	idx := catalog.NewReferenceIndex(brands, categories)

	c.mu.Lock()
	c.index = idx
	c.loadedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("Reference data loaded",
		zap.Int("brands", len(brands)),
		zap.Int("categories", len(categories)),
	)
	return idx, nil
}

var _ catalog.ReferenceSource = (*ReferenceCache)(nil)

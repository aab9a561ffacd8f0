// internal/service/search/categories.go

package search

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"marketplace/internal/domain/listing"
	"marketplace/internal/domain/search"
	"marketplace/internal/logger"
)

const categoriesKey = "manpower:job_titles"

// CategoryCacheConfig contains configuration for the title rollup cache
type CategoryCacheConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
	Limit   int
}

// Categories is the title rollup payload
type Categories struct {
	Categories []listing.TitleCount `json:"categories"`
	Count      int                  `json:"count"`
	Cached     bool                 `json:"cached"`
}

// CategoryCache memoizes the most common manpower job titles. Readers may see
// a rollup up to TTL old unless Invalidate is called on writes.
type CategoryCache struct {
	store  search.ManpowerStore
	cache  *gocache.Cache
	config CategoryCacheConfig
	logger *zap.Logger
}

// NewCategoryCache creates a new title rollup cache
func NewCategoryCache(store search.ManpowerStore, config CategoryCacheConfig, log *zap.Logger) *CategoryCache {
	if config.TTL <= 0 {
		config.TTL = 2 * time.Hour
	}
	if config.Cleanup <= 0 {
		config.Cleanup = 10 * time.Minute
	}
	if config.Limit <= 0 {
		config.Limit = 20
	}

	return &CategoryCache{
		store:  store,
		cache:  gocache.New(config.TTL, config.Cleanup),
		config: config,
		logger: logger.OrNop(log).Named("categories"),
	}
}

// Get returns the cached rollup, loading it from the store on a miss
func (c *CategoryCache) Get(ctx context.Context) (*Categories, error) {
	if cached, ok := c.cache.Get(categoriesKey); ok {
		titles := cached.([]listing.TitleCount)
		return &Categories{Categories: titles, Count: len(titles), Cached: true}, nil
	}

	titles, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	return &Categories{Categories: titles, Count: len(titles)}, nil
}

// Refresh reloads the rollup from the store
func (c *CategoryCache) Refresh(ctx context.Context) (*Categories, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Invalidate drops the cached rollup
func (c *CategoryCache) Invalidate() {
	c.cache.Delete(categoriesKey)
	c.logger.Debug("title rollup invalidated")
}

func (c *CategoryCache) load(ctx context.Context) ([]listing.TitleCount, error) {
	titles, err := c.store.TopJobTitles(ctx, c.config.Limit)
	if err != nil {
		c.logger.Error("error loading job titles", zap.Error(err))
		return nil, fmt.Errorf("%w: error loading job titles: %w", search.ErrUnavailable, err)
	}
	if titles == nil {
		titles = []listing.TitleCount{}
	}

	c.cache.SetDefault(categoriesKey, titles)
	return titles, nil
}

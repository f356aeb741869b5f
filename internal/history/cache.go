// Package history memoizes per-item raw price series fetched from the
// columnar store. Each item is queried at most once per session; everything
// downstream works on the cached, already-ordered observations.
package history

import (
	"context"
	"log"
	"sync"

	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// Cache is a fetch-once, memoize-forever store of per-item observations.
// It never evicts: it is sized by the number of distinct items a user
// explores in one comparison session.
type Cache struct {
	store  storage.PriceHistoryStore
	logger *log.Logger

	mu     sync.Mutex
	series map[string][]*domain.Observation
}

// NewCache creates a cache over the given price history store.
// A nil logger defaults to log.Default().
func NewCache(store storage.PriceHistoryStore, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{
		store:  store,
		logger: logger,
		series: make(map[string][]*domain.Observation),
	}
}

// Fetch returns the item's full chronological series, querying the store
// only on the first call per name. A failed query degrades to an empty
// series (logged, not propagated): downstream stages treat "no
// observations" as a legitimate, displayable state, and a single item's
// failure must not abort the pipeline for the rest of the selection.
func (c *Cache) Fetch(ctx context.Context, name string) []*domain.Observation {
	c.mu.Lock()
	if cached, ok := c.series[name]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	points, err := c.store.QueryByName(ctx, name)
	if err != nil {
		c.logger.Printf("history query for %q failed, treating as empty: %v", name, err)
		points = nil
	}

	obs := make([]*domain.Observation, 0, len(points))
	multiYear := len(points) > 1 && points[0].Date.Year() != points[len(points)-1].Date.Year()
	for _, p := range points {
		obs = append(obs, &domain.Observation{
			Date:      p.Date,
			Price:     p.Price,
			DateShort: p.Date.ShortLabel(multiYear),
			FullDate:  p.Date.FullLabel(),
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent Fetch for the same name may have beaten us here. Keep
	// the first result so callers holding the earlier slice stay consistent.
	if cached, ok := c.series[name]; ok {
		return cached
	}
	c.series[name] = obs
	return obs
}

// Series returns the cached observations for an item, or nil when the item
// has never been fetched. It never triggers a query.
func (c *Cache) Series(name string) []*domain.Observation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series[name]
}

// Has reports whether an item's series is resident.
func (c *Cache) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.series[name]
	return ok
}

// Len returns the number of cached series.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.series)
}

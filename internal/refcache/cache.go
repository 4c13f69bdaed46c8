// Package refcache keeps the reference shop table in memory for proximity lookups.
package refcache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/geo"
	"github.com/ukydev/city-directory/internal/metrics"
	"github.com/ukydev/city-directory/internal/models"
	"github.com/ukydev/city-directory/internal/proximity"
	"golang.org/x/sync/singleflight"
)

// ShopSource loads the full reference table from the backing store.
type ShopSource interface {
	AllReferenceShops(ctx context.Context) ([]models.ReferenceShop, error)
}

// Cache holds the reference table. A zero TTL keeps a loaded table until
// Invalidate is called.
type Cache struct {
	source ShopSource
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	table    []proximity.Reference
	loaded   bool
	loadedAt time.Time
	// gen advances on Invalidate and forced Load. A fetch stores its
	// result only if gen has not moved since it started.
	gen uint64

	group singleflight.Group
}

// New creates an empty cache over source.
func New(source ShopSource, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl, now: time.Now}
}

// Get returns the reference table, loading it on first use or after expiry.
// The returned slice must be treated as read-only.
func (c *Cache) Get(ctx context.Context) ([]proximity.Reference, error) {
	c.mu.RLock()
	if c.fresh() {
		table := c.table
		c.mu.RUnlock()
		metrics.ReferenceCacheHits.Inc()
		return table, nil
	}
	c.mu.RUnlock()
	return c.load(ctx, false)
}

// Load fetches the table from the source and replaces the cached copy.
// Concurrent callers share one fetch. On failure the previous table stays.
func (c *Cache) Load(ctx context.Context) ([]proximity.Reference, error) {
	return c.load(ctx, true)
}

func (c *Cache) load(ctx context.Context, force bool) ([]proximity.Reference, error) {
	c.mu.Lock()
	if force {
		c.gen++
	}
	gen := c.gen
	c.mu.Unlock()

	// Fetches are shared per generation, so a caller arriving after an
	// invalidation never joins a fetch that started before it.
	key := "load-" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if !force {
			c.mu.RLock()
			if c.fresh() && c.gen == gen {
				table := c.table
				c.mu.RUnlock()
				return table, nil
			}
			c.mu.RUnlock()
		}
		shops, err := c.source.AllReferenceShops(ctx)
		if err != nil {
			metrics.ReferenceCacheErrors.Inc()
			return nil, fmt.Errorf("load reference shops: %w", err)
		}
		table := toReferences(shops)

		c.mu.Lock()
		stale := c.gen != gen
		if !stale {
			c.table = table
			c.loaded = true
			c.loadedAt = c.now()
		}
		c.mu.Unlock()

		if stale {
			log.WithField("shops", len(table)).Debug("Discarded reference table fetched before invalidation")
			return table, nil
		}
		metrics.ReferenceCacheLoads.Inc()
		metrics.ReferenceShops.Set(float64(len(table)))
		log.WithField("shops", len(table)).Debug("Loaded reference table")
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]proximity.Reference), nil
}

// Invalidate drops the cached table; the next Get reloads it. A fetch
// already in flight is not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.loaded = false
	c.table = nil
	c.mu.Unlock()
	log.Debug("Invalidated reference table")
}

// fresh must be called with mu held.
func (c *Cache) fresh() bool {
	if !c.loaded {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}

func toReferences(shops []models.ReferenceShop) []proximity.Reference {
	out := make([]proximity.Reference, 0, len(shops))
	for _, s := range shops {
		out = append(out, proximity.Reference{
			Name:       s.Name,
			Coordinate: geo.Coordinate{Lat: s.Lat, Lng: s.Lng},
		})
	}
	return out
}

// Package facetcache caches facet maps in a key-value store.
package facetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hotelsearch/internal/db"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/criteria"
	"github.com/kailas-cloud/hotelsearch/internal/domain/search/result"
)

const keySpace = "facets:"

// DefaultTTL bounds how stale cached facets may get after an index change.
const DefaultTTL = time.Minute

// store is the consumer interface for the facet cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache implements search.FacetCache over a key-value store.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a facet cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"evict"), passed explicitly; it may be nil.
func New(s store, prefix string, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns cached facets. Store and decode failures are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) (result.Facets, bool) {
	k := c.cacheKey(key)

	data, err := c.store.Get(ctx, k)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached facets", zap.String("key", k), zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}

	var f result.Facets
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		c.logger.Warn("Failed to parse cached facets", zap.String("key", k), zap.Error(err))
		c.inc("miss")
		return nil, false
	}

	c.inc("hit")
	return f, true
}

// Set stores facets with the configured TTL. Failures are logged.
func (c *Cache) Set(ctx context.Context, key string, f result.Facets) {
	k := c.cacheKey(key)

	data, err := json.Marshal(f)
	if err != nil {
		c.logger.Warn("Failed to encode facets", zap.String("key", k), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, k, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache facets", zap.String("key", k), zap.Error(err))
	}
}

// EvictCity drops the entries a change to a hotel in city certainly stales: the
// unfiltered facets and the facets filtered by that city alone. An empty city
// evicts only the unfiltered entry. Narrower entries expire with the TTL.
func (c *Cache) EvictCity(ctx context.Context, city string) {
	scopes := []criteria.Params{{}}
	if city != "" {
		scopes = append(scopes, criteria.Params{City: city})
	}
	for _, p := range scopes {
		crit, err := criteria.New(p, criteria.DefaultLimits())
		if err != nil {
			continue
		}
		k := c.cacheKey(crit.CacheKey())
		if err := c.store.Del(ctx, k); err != nil {
			c.logger.Warn("Failed to evict cached facets", zap.String("key", k), zap.Error(err))
			continue
		}
		c.inc("evict")
	}
}

func (c *Cache) inc(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}

func (c *Cache) cacheKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return c.prefix + keySpace + hex.EncodeToString(h[:])
}
